package wait

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForWithoutTerminalRunsInline(t *testing.T) {
	var out bytes.Buffer
	got, err := For(context.Background(), &out, "reviewing", func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Empty(t, out.String(), "no spinner frames off a terminal")

	boom := errors.New("boom")
	_, err = For(context.Background(), &out, "reviewing", func(context.Context) (string, error) {
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestModelQuitsWhenDone(t *testing.T) {
	m := newModel("Waiting for review")
	assert.True(t, strings.Contains(m.line(), "Waiting for review"))

	next, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, next.(model).done)
	assert.Empty(t, next.(model).line())
}

func TestModelCtrlCInterrupts(t *testing.T) {
	m := newModel("x")
	next, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, next.(model).interrupted)

	next, cmd = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	assert.Nil(t, cmd)
	assert.False(t, next.(model).interrupted)
}
