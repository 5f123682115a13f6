package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/self-lens/api-go/config"
	"github.com/self-lens/api-go/models"
	"github.com/self-lens/api-go/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB           *gorm.DB
	GoogleConfig *config.GoogleConfig
	Logger       *zap.Logger
}

func NewAuthController(db *gorm.DB, googleConfig *config.GoogleConfig, logger *zap.Logger) *AuthController {
	return &AuthController{DB: db, GoogleConfig: googleConfig, Logger: logger}
}

func userPayload(user *models.User) gin.H {
	return gin.H{
		"id":     user.ID,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.Avatar,
		"role":   user.Role,
	}
}

// sendToken issues the access/refresh token pair for a freshly
// authenticated user and persists the refresh token.
func (ac *AuthController) sendToken(c *gin.Context, user *models.User, statusCode int) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not generate token"})
		return
	}

	ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(utils.RefreshTokenTTL),
	})

	c.JSON(statusCode, gin.H{
		"success":       true,
		"token_type":    "Bearer",
		"token":         accessToken,
		"refresh_token": refreshToken,
		"data":          gin.H{"user": userPayload(user)},
	})
}

func (ac *AuthController) Signup(c *gin.Context) {
	var input struct {
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	if input.Password != input.PasswordConfirm {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Passwords do not match"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not hash password"})
		return
	}
	hashedStr := string(hashed)

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: &hashedStr,
		Role:     "user",
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Email already exists"})
		return
	}

	ac.sendToken(c, &user, http.StatusCreated)
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Please provide email and password"})
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Incorrect email or password"})
		return
	}

	// Social-login accounts carry no password.
	if user.Password == nil ||
		bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnprocessableEntity, StandardResponse{Success: false, Message: "Incorrect email or password"})
		return
	}

	ac.sendToken(c, &user, http.StatusOK)
}

// GoogleLogin exchanges an authorization code (or verifies a Google
// token) and signs the user in, creating the account on first login.
func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		c.JSON(http.StatusServiceUnavailable, StandardResponse{Success: false, Message: "Google login is not configured"})
		return
	}

	var input struct {
		Code        string `json:"code"`
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error
	switch {
	case input.Code != "":
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchangeErr != nil {
			err = exchangeErr
		} else {
			userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
		}
	case input.IDToken != "":
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	case input.AccessToken != "":
		userInfo, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	default:
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: "Either code, id_token or access_token is required"})
		return
	}

	if err != nil {
		ac.Logger.Warn("google authentication failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Google authentication failed"})
		return
	}

	var user models.User
	err = ac.DB.Where("email = ?", userInfo.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Name:          userInfo.Name,
			Email:         userInfo.Email,
			Avatar:        userInfo.Picture,
			Role:          "user",
			IsSocialLogin: true,
		}
		if err := ac.DB.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Failed to create user"})
			return
		}
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Google authentication failed"})
		return
	}

	ac.sendToken(c, &user, http.StatusOK)
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Invalid refresh token"})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Refresh token expired"})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "User not found"})
		return
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not generate token"})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, StandardResponse{Success: false, Message: "Could not generate token"})
		return
	}

	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(utils.RefreshTokenTTL)
	ac.DB.Save(&refreshToken)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"token_type":    "Bearer",
		"token":         accessToken,
		"refresh_token": newRefreshToken,
		"data":          gin.H{"user": userPayload(&user)},
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, StandardResponse{Success: false, Message: err.Error()})
		return
	}

	ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	c.JSON(http.StatusOK, StandardResponse{Success: true, Message: "Logged out successfully"})
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, StandardResponse{Success: false, Message: "Authentication required"})
		return
	}

	var dbUser models.User
	if err := ac.DB.First(&dbUser, user.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, StandardResponse{Success: false, Message: "User not found"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{Success: true, Data: gin.H{"user": userPayload(&dbUser)}})
}
