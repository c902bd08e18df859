package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillpilot/internal/learner"
	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/skillgraph"
)

type handlers struct {
	svc         *learner.Service
	adminSecret string
}

type createProfileRequest struct {
	UserID  string         `json:"userId"`
	Intake  persona.Intake `json:"intake"`
	IsAdmin bool           `json:"isAdmin"`
}

type adminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

type completeRequest struct {
	Delta *int `json:"delta"`
}

type submitRequest struct {
	Text        string   `json:"text"`
	Attachments []string `json:"attachments"`
}

// GET /v1/use-cases?domain=ops
func (h *handlers) listUseCases() gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := h.svc.Catalog()
		if d := c.Query("domain"); d != "" {
			c.JSON(http.StatusOK, cat.UseCasesFor(skillgraph.Domain(d)))
			return
		}
		c.JSON(http.StatusOK, cat.UseCases())
	}
}

// POST /v1/profiles
//
// Creating an admin profile needs the same credentials as the preview routes.
func (h *handlers) createProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		if req.IsAdmin && !authorizeAdmin(c, h.adminSecret) {
			forbid(c)
			return
		}
		p, err := h.svc.Onboard(c.Request.Context(), req.UserID, req.Intake, req.IsAdmin, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// GET /v1/profiles/:id
func (h *handlers) getProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.svc.Load(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// PUT /v1/profiles/:id/intake
func (h *handlers) updateIntake() gin.HandlerFunc {
	return func(c *gin.Context) {
		var in persona.Intake
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		ctx := c.Request.Context()
		p, err := h.svc.Load(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := h.svc.Reclassify(ctx, p, in, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// PUT /v1/profiles/:id/admin
func (h *handlers) setAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req adminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		ctx := c.Request.Context()
		p, err := h.svc.Load(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := h.svc.SetAdmin(ctx, p, req.IsAdmin, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /v1/profiles/:id/tree?all=true
func (h *handlers) getTree() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.svc.Load(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		nodes, err := h.svc.Nodes(p)
		if err != nil {
			writeError(c, err)
			return
		}
		if c.Query("all") != "true" {
			nodes = skillgraph.Visible(nodes)
		}
		c.JSON(http.StatusOK, gin.H{
			"skillTreeId":  p.SkillTreeID,
			"masteryScore": p.MasteryScore,
			"domain":       p.Domain,
			"nodes":        nodes,
		})
	}
}

// POST /v1/profiles/:id/use-cases/:useCaseID/complete
func (h *handlers) completeUseCase() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req completeRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, "Invalid request")
				return
			}
		}
		delta := learner.DefaultCompletionDelta
		if req.Delta != nil {
			delta = *req.Delta
		}

		ctx := c.Request.Context()
		p, err := h.svc.Load(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		res, err := h.svc.CompleteUseCase(ctx, p, c.Param("useCaseID"), delta, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// POST /v1/profiles/:id/program
func (h *handlers) startProgram() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		p, err := h.svc.Load(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := h.svc.StartProgram(ctx, p, true)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// POST /v1/profiles/:id/program/weeks/:week/submit
func (h *handlers) submitWeek() gin.HandlerFunc {
	return func(c *gin.Context) {
		weekNo, ok := weekParam(c)
		if !ok {
			return
		}
		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}

		ctx := c.Request.Context()
		p, err := h.svc.Load(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := h.svc.SubmitWeek(ctx, p, weekNo, req.Text, req.Attachments, true)
		respondJourney(c, out, err)
	}
}

// POST /v1/profiles/:id/program/weeks/:week/resume
func (h *handlers) resumeReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		weekNo, ok := weekParam(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		p, err := h.svc.Load(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		out, err := h.svc.ResumeReview(ctx, p, weekNo, true)
		respondJourney(c, out, err)
	}
}

// GET /v1/preview?domain=ops&persona=demand_forecaster
func (h *handlers) preview() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.svc.Preview(skillgraph.Domain(c.Query("domain")), persona.Persona(c.Query("persona")))
		if err != nil {
			writeError(c, err)
			return
		}
		nodes, err := h.svc.Nodes(p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": p, "nodes": nodes})
	}
}

// POST /v1/preview/weeks/:week/submit?domain=ops&persona=demand_forecaster
//
// Preview-only override: a LOCKED target week is unlocked before the
// submission so any week can be reviewed out of order. The learner route
// POST /v1/profiles/:id/program/weeks/:week/submit never does this and
// answers 409 for a locked week.
func (h *handlers) previewSubmit() gin.HandlerFunc {
	return func(c *gin.Context) {
		weekNo, ok := weekParam(c)
		if !ok {
			return
		}
		var req submitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		out, err := h.svc.PreviewSubmit(c.Request.Context(),
			skillgraph.Domain(c.Query("domain")), persona.Persona(c.Query("persona")),
			weekNo, req.Text, req.Attachments)
		respondJourney(c, out, err)
	}
}

// respondJourney writes the profile after a week transition. A review failure
// still returns the profile, with the week left at submitted.
func respondJourney(c *gin.Context, p *learner.Profile, err error) {
	var reviewErr *program.ReviewError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.As(err, &reviewErr) && p != nil:
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   gin.H{"message": err.Error()},
			"profile": p,
		})
	default:
		writeError(c, err)
	}
}

func weekParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("week"))
	if err != nil || n < 0 {
		badRequest(c, "week must be a non-negative integer")
		return 0, false
	}
	return n, true
}
