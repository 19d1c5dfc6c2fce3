package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AuthHandler struct {
	db  *gorm.DB
	jwt config.JWTConfig
	log *zap.Logger
	now func() time.Time
}

func NewAuthHandler(db *gorm.DB, cfg config.JWTConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{db: db, jwt: cfg, log: log, now: time.Now}
}

// --------- Requests ---------

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=doctor patient"`

	Specialization string `json:"specialization"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func viewOf(u *models.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, h.log, bindError(err))
		return
	}

	specialization := strings.TrimSpace(req.Specialization)
	if req.Role == models.RoleDoctor && specialization == "" {
		httperr.Respond(c, h.log, domain.ErrMissingFields)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Role:         req.Role,
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if err := tx.Create(&user).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		if user.Role == models.RoleDoctor {
			return tx.Create(&models.Doctor{UserID: user.ID, Specialization: specialization}).Error
		}
		return tx.Create(&models.Patient{UserID: user.ID}).Error
	})
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	token, err := middleware.IssueToken(h.jwt, user.ID, user.Role, h.now())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.Created(c, gin.H{
		"token": token,
		"user":  viewOf(&user),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, h.log, bindError(err))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, h.log, ErrInvalidCredentials)
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Respond(c, h.log, ErrInvalidCredentials)
		return
	}

	token, err := middleware.IssueToken(h.jwt, user.ID, user.Role, h.now())
	if err != nil {
		httperr.Respond(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"token": token,
		"user":  viewOf(&user),
	})
}

// Profile returns the authenticated user with the id of their role profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.Respond(c, h.log, ErrInvalidCredentials)
			return
		}
		httperr.Respond(c, h.log, err)
		return
	}

	out := gin.H{"user": viewOf(&user)}

	switch user.Role {
	case models.RoleDoctor:
		var d models.Doctor
		if err := h.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&d).Error; err == nil {
			out["doctorId"] = d.ID
		}
	case models.RolePatient:
		var p models.Patient
		if err := h.db.WithContext(ctx).Where("user_id = ?", user.ID).First(&p).Error; err == nil {
			out["patientId"] = p.ID
		}
	}

	httpresp.OK(c, out)
}
