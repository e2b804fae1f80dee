package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/db"
	svcErr "github.com/woopit/woopit-server/internal/errors"
	"github.com/woopit/woopit-server/internal/repository"
	"github.com/woopit/woopit-server/internal/server"
)

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password; both collapse to the same answer on the wire.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service implements registration and login.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// RegisterInput carries a validated registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Age       int
	Email     string
	Password  string
	Bio       string
}

// Register hashes the password and persists the user.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*db.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Age:          in.Age,
		Email:        in.Email,
		PasswordHash: string(hash),
		Bio:          in.Bio,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *db.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := server.IssueToken(s.appCtx.Config, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

//
// HTTP handlers
//

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Age       int    `json:"age" binding:"required,gte=18"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Bio       string `json:"bio"`
}

func (s *Service) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "invalid registration: "+err.Error())
		return
	}

	user, err := s.Register(c.Request.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Email:     req.Email,
		Password:  req.Password,
		Bio:       req.Bio,
	})
	if err != nil {
		s.appCtx.Logger.Error("registration failed", "email", req.Email, "err", err)
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "message": "registered"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Service) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "email and password are required")
		return
	}

	token, user, err := s.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		svcErr.AbortUnauthorized(c, err.Error())
		return
	}
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
		},
	})
}
