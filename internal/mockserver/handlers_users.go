package mockserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/catalyst"
	"github.com/cataloro/cataloro-probe/internal/models"
	"github.com/cataloro/cataloro-probe/internal/util"
)

func (s *Server) createReview(c *gin.Context) {
	var r models.Review
	if err := c.ShouldBindJSON(&r); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if r.Rating < 1 || r.Rating > 5 {
		abort(c, http.StatusUnprocessableEntity, "Rating must be between 1 and 5")
		return
	}
	if r.ReviewerID == "" {
		r.ReviewerID = callerFrom(c).ID
	}
	if r.ReviewerID == r.RevieweeID {
		abort(c, http.StatusBadRequest, "Cannot review yourself")
		return
	}
	if _, ok := s.state.user(r.RevieweeID); !ok {
		abort(c, http.StatusNotFound, "Reviewed user not found")
		return
	}
	if r.Type == "" {
		r.Type = "buyer"
	}
	c.JSON(http.StatusOK, s.state.addReview(r))
}

func (s *Server) userReviews(c *gin.Context) {
	userID := c.Param("id")
	if _, ok := s.state.user(userID); !ok {
		abort(c, http.StatusNotFound, "User not found")
		return
	}

	reviews := s.state.reviewsFor(userID)
	out := models.UserReviews{Reviews: reviews, TotalReviews: len(reviews)}
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		out.AverageRating = util.Round(float64(sum) / float64(len(reviews)))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listBaskets(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.basketsFor(c.Param("id")))
}

func (s *Server) createBasket(c *gin.Context) {
	var b models.Basket
	if err := c.ShouldBindJSON(&b); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if strings.TrimSpace(b.Name) == "" {
		abort(c, http.StatusUnprocessableEntity, "Basket name is required")
		return
	}
	b.ID = ""
	b.UserID = c.Param("id")
	c.JSON(http.StatusOK, s.state.saveBasket(s.withTotals(b)))
}

func (s *Server) updateBasket(c *gin.Context) {
	current, ok := s.ownedBasket(c)
	if !ok {
		return
	}

	var update models.Basket
	if err := c.ShouldBindJSON(&update); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	updated, ok := s.state.updateBasket(current.ID, func(b *models.Basket) {
		if update.Name != "" {
			b.Name = update.Name
		}
		b.Description = update.Description
		if update.Items != nil {
			b.Items = update.Items
		}
	})
	if !ok {
		abort(c, http.StatusNotFound, "Basket not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteBasket(c *gin.Context) {
	b, ok := s.ownedBasket(c)
	if !ok {
		return
	}
	s.state.deleteBasket(b.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Basket deleted", "id": b.ID})
}

func (s *Server) addBasketItem(c *gin.Context) {
	b, ok := s.ownedBasket(c)
	if !ok {
		return
	}

	var item models.BasketItem
	if err := c.ShouldBindJSON(&item); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if item.CeramicWeight < 0 || item.PtPPM < 0 || item.PdPPM < 0 || item.RhPPM < 0 {
		abort(c, http.StatusUnprocessableEntity, "Catalyst values must not be negative")
		return
	}
	item.ID = newID()
	updated, ok := s.state.updateBasket(b.ID, func(b *models.Basket) {
		b.Items = append(b.Items, item)
	})
	if !ok {
		abort(c, http.StatusNotFound, "Basket not found")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ownedBasket loads :id and aborts unless the caller owns it or is an admin.
func (s *Server) ownedBasket(c *gin.Context) (models.Basket, bool) {
	b, ok := s.state.basket(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, "Basket not found")
		return models.Basket{}, false
	}
	who := callerFrom(c)
	if b.UserID != who.ID && !who.isAdmin() {
		abort(c, http.StatusForbidden, "Not the owner of this basket")
		return models.Basket{}, false
	}
	return b, true
}

func (s *Server) withTotals(b models.Basket) models.Basket {
	b.Totals = catalyst.BasketTotals(b.Items, s.state.priceSettings())
	return b
}

func (s *Server) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.notificationsFor(c.Param("id")))
}

func (s *Server) createNotification(c *gin.Context) {
	var n models.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		abort(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if strings.TrimSpace(n.Title) == "" {
		abort(c, http.StatusUnprocessableEntity, "Title is required")
		return
	}
	n.UserID = c.Param("id")
	if n.Type == "" {
		n.Type = "system"
	}
	c.JSON(http.StatusOK, s.notify(n))
}

func (s *Server) markNotificationRead(c *gin.Context) {
	if !s.state.markRead(c.Param("id"), c.Param("nid")) {
		abort(c, http.StatusNotFound, "Notification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// notify stores n and pushes it to the recipient's open sockets.
func (s *Server) notify(n models.Notification) models.Notification {
	stored := s.state.addNotification(n)
	msg, err := json.Marshal(notificationEvent{Type: "notification", Notification: stored})
	if err != nil {
		zap.S().Named("mock_ws").Errorw("failed to encode notification", "error", err)
		return stored
	}
	s.hub.publish(stored.UserID, msg)
	return stored
}
