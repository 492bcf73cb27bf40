package controllers

import (
	"errors"
	"net/http"

	"ticket-marketplace/middleware"
	"ticket-marketplace/models"
	"ticket-marketplace/repository"
	"ticket-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserController covers account glue: login upsert, role lookup, seller
// requests, and admin role management.
type UserController struct {
	Users  repository.UserStore
	Roles  *services.RoleService
	Logger *zap.Logger
}

// Upsert saves a new user or refreshes last_loggedin for a returning one.
func (uc *UserController) Upsert(c *gin.Context) {
	var req models.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{Email: req.Email, Name: req.Name, Image: req.Image}
	created, err := uc.Users.Upsert(c.Request.Context(), user)
	if err != nil {
		uc.Logger.Error("user upsert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// Role returns the caller's own role tag.
func (uc *UserController) Role(c *gin.Context) {
	role, err := uc.Roles.Role(c.Request.Context(), middleware.TokenEmail(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		uc.Logger.Error("role lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": role})
}

// BecomeSeller files a seller application for the caller.
func (uc *UserController) BecomeSeller(c *gin.Context) {
	err := uc.Users.CreateSellerRequest(c.Request.Context(), middleware.TokenEmail(c))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRequested) {
			c.JSON(http.StatusConflict, gin.H{"message": "already requested, please wait for approval"})
			return
		}
		uc.Logger.Error("seller request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save request"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": true})
}

// SellerRequests lists pending seller applications (admin).
func (uc *UserController) SellerRequests(c *gin.Context) {
	requests, err := uc.Users.ListSellerRequests(c.Request.Context())
	if err != nil {
		uc.Logger.Error("seller request listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch requests"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ListUsers lists all accounts except the calling admin's own.
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.Users.ListOthers(c.Request.Context(), middleware.TokenEmail(c))
	if err != nil {
		uc.Logger.Error("user listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateRole changes an account's role, clears any pending seller request for
// it, and invalidates the cached role.
func (uc *UserController) UpdateRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := uc.Users.UpdateRole(ctx, req.Email, req.Role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		uc.Logger.Error("role update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update role"})
		return
	}

	if err := uc.Users.DeleteSellerRequest(ctx, req.Email); err != nil {
		uc.Logger.Warn("seller request cleanup failed", zap.String("email", req.Email), zap.Error(err))
	}
	uc.Roles.Invalidate(ctx, req.Email)

	c.JSON(http.StatusOK, gin.H{"updated": true})
}
