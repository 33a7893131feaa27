package mockserver

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cataloro/cataloro-probe/internal/catalyst"
	"github.com/cataloro/cataloro-probe/internal/models"
)

// adRuntimes maps the runtimes the ads manager accepts to their duration.
var adRuntimes = map[string]time.Duration{
	"1 day":    24 * time.Hour,
	"1 week":   7 * 24 * time.Hour,
	"1 month":  30 * 24 * time.Hour,
	"3 months": 90 * 24 * time.Hour,
	"1 year":   365 * 24 * time.Hour,
}

func (s *Server) adminUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.listUsers())
}

func (s *Server) updateUserStatus(c *gin.Context) {
	var req models.UserStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	id := c.Param("id")
	if id == callerFrom(c).ID && !req.IsActive {
		abort(c, http.StatusBadRequest, "Admins cannot suspend themselves")
		return
	}
	u, ok := s.state.setUserActive(id, req.IsActive)
	if !ok {
		abort(c, http.StatusNotFound, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User status updated", "user": u})
}

func (s *Server) exportPDF(c *gin.Context) {
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if req.Title == "" {
		req.Title = "Cataloro export"
	}

	lines := []string{"Section: " + req.Section, "Generated: " + now()}
	lines = append(lines, req.Items...)
	c.Header("Content-Disposition", `attachment; filename="cataloro-export.pdf"`)
	c.Data(http.StatusOK, "application/pdf", renderPDF(req.Title, lines))
}

func (s *Server) getAds(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.adsConfig())
}

func (s *Server) updateAds(c *gin.Context) {
	var req models.AdsConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if len(req.Ads) == 0 {
		abort(c, http.StatusUnprocessableEntity, "No ads given")
		return
	}

	names := make([]string, 0, len(req.Ads))
	for name := range req.Ads {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		slot := req.Ads[name]
		d, ok := adRuntimes[slot.Runtime]
		if !ok {
			abort(c, http.StatusUnprocessableEntity, "Unknown runtime for "+name+": "+slot.Runtime)
			return
		}
		if slot.Active && slot.ExpirationDate == "" {
			slot.ExpirationDate = time.Now().UTC().Add(d).Format(time.RFC3339)
		}
		if !slot.Active {
			slot.ExpirationDate = ""
		}
		req.Ads[name] = slot
	}

	c.JSON(http.StatusOK, s.state.mergeAds(req))
}

func (s *Server) getPriceSettings(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.priceSettings())
}

func (s *Server) updatePriceSettings(c *gin.Context) {
	var p models.PriceSettings
	if err := c.ShouldBindJSON(&p); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := catalyst.ValidateSettings(p); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.state.setPriceSettings(p)
	c.JSON(http.StatusOK, p)
}

func (s *Server) catalystData(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.catalystData())
}

func (s *Server) catalystCalculations(c *gin.Context) {
	c.JSON(http.StatusOK, catalyst.Calculate(s.state.catalystData(), s.state.priceSettings()))
}
