package services

import (
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"snapgram/internal/models"
	"snapgram/internal/repositories"
	"snapgram/pkg/apperr"
	"snapgram/pkg/mailer"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpLength   = 6
	otpTTL      = 24 * time.Hour
	resetOtpTTL = 5 * time.Minute
)

// credentialsMessage is shared by every credential failure (unknown email,
// wrong password, bad reset OTP) so responses never reveal whether an email
// is registered.
const credentialsMessage = "Incorrect email or password"

// AuthService handles signup, OTP verification, login and the password
// lifecycle, and issues the session tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	mailer     Mailer
	events     EventPublisher
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which a session token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, m Mailer, events EventPublisher, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		mailer:     m,
		events:     events,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// Signup creates an unverified account, emails it a verification OTP and
// issues a session token. If the email cannot be sent the fresh record is
// deleted again so the address stays free for a retry.
func (s *AuthService) Signup(email, username, password, passwordConfirm string) (*models.User, string, error) {
	if email == "" || username == "" || password == "" {
		return nil, "", apperr.Validation("Please provide email, username and password")
	}
	if password != passwordConfirm {
		return nil, "", apperr.Validation("Passwords do not match")
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", apperr.Validation("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	otp, err := generateOtp()
	if err != nil {
		return nil, "", err
	}
	expires := time.Now().Add(otpTTL)

	user := &models.User{
		Username:   username,
		Email:      email,
		Password:   string(hashed),
		Otp:        otp,
		OtpExpires: &expires,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	err = s.sendOtpEmail(user, "OTP verification", "OTP verification", otp,
		"Please enter the following OTP to verify your account")
	if err != nil {
		log.Printf("Failed to send verification email to %s: %v", user.Email, err)
		if delErr := s.userRepo.Delete(user.ID); delErr != nil {
			log.Printf("Failed to roll back user %s after email failure: %v", user.ID, delErr)
		}
		return nil, "", apperr.Internal("There was an error creating the account")
	}

	token, err := s.CreateToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	publishEvent(s.events, "user.registered", map[string]interface{}{
		"userID":   user.ID,
		"username": user.Username,
	})

	return user, token, nil
}

// VerifyAccount checks the supplied OTP against the caller's pending code,
// marks the account verified and clears the code so it can never be replayed.
func (s *AuthService) VerifyAccount(user *models.User, otp string) (string, error) {
	if otp == "" {
		return "", apperr.Validation("Please enter the OTP")
	}
	if user.Otp == "" || user.Otp != otp {
		return "", apperr.Validation("Invalid OTP")
	}
	if user.OtpExpires == nil || user.OtpExpires.Before(time.Now()) {
		return "", apperr.Validation("OTP expired")
	}

	user.Otp = ""
	user.OtpExpires = nil
	user.IsVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return "", fmt.Errorf("failed to mark user verified: %w", err)
	}

	return s.CreateToken(user.ID)
}

// ResendOtp regenerates the verification code and re-sends the email. A send
// failure clears the fresh code rather than leaving stale state behind.
func (s *AuthService) ResendOtp(user *models.User) error {
	if user.IsVerified {
		return apperr.Validation("User is already verified")
	}

	otp, err := generateOtp()
	if err != nil {
		return err
	}
	expires := time.Now().Add(otpTTL)
	user.Otp = otp
	user.OtpExpires = &expires
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store new OTP: %w", err)
	}

	err = s.sendOtpEmail(user, "Resend OTP for email verification", "OTP verification", otp,
		"Please enter the following OTP to verify your account")
	if err != nil {
		log.Printf("Failed to resend verification email to %s: %v", user.Email, err)
		user.Otp = ""
		user.OtpExpires = nil
		if uerr := s.userRepo.Update(user); uerr != nil {
			log.Printf("Failed to clear OTP for user %s: %v", user.ID, uerr)
		}
		return apperr.Internal("There was an error sending the email. Try again later")
	}

	return nil
}

// Login authenticates by email and password and issues a session token.
// Unknown email and wrong password produce the identical error.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.Validation("Please provide email and password")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", apperr.Unauthorized(credentialsMessage)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperr.Unauthorized(credentialsMessage)
	}

	token, err := s.CreateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ForgetPassword emails a short-lived reset OTP. The same generic error as
// login covers an unknown address.
func (s *AuthService) ForgetPassword(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return apperr.Unauthorized(credentialsMessage)
	}

	otp, err := generateOtp()
	if err != nil {
		return err
	}
	expires := time.Now().Add(resetOtpTTL)
	user.ResetPasswordOtp = otp
	user.ResetPasswordOtpExpires = &expires
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to store reset OTP: %w", err)
	}

	err = s.sendOtpEmail(user, "Reset Password OTP (valid for 5 minutes)", "Reset Password OTP", otp,
		"Please enter the following OTP to reset your password")
	if err != nil {
		log.Printf("Failed to send reset email to %s: %v", user.Email, err)
		user.ResetPasswordOtp = ""
		user.ResetPasswordOtpExpires = nil
		if uerr := s.userRepo.Update(user); uerr != nil {
			log.Printf("Failed to clear reset OTP for user %s: %v", user.ID, uerr)
		}
		return apperr.Internal("There was an error sending the email. Try again later")
	}

	return nil
}

// ResetPassword sets a new password for the account matching email plus an
// unexpired reset OTP, clears the code and issues a session token.
func (s *AuthService) ResetPassword(email, otp, password, passwordConfirm string) (*models.User, string, error) {
	if password == "" || password != passwordConfirm {
		return nil, "", apperr.Validation("Passwords do not match")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", apperr.Unauthorized(credentialsMessage)
	}
	if user.ResetPasswordOtp == "" || user.ResetPasswordOtp != otp ||
		user.ResetPasswordOtpExpires == nil || user.ResetPasswordOtpExpires.Before(time.Now()) {
		return nil, "", apperr.Unauthorized(credentialsMessage)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	user.ResetPasswordOtp = ""
	user.ResetPasswordOtpExpires = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", fmt.Errorf("failed to reset password: %w", err)
	}

	token, err := s.CreateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword verifies the caller's current password, stores the new one
// and issues a fresh session token.
func (s *AuthService) ChangePassword(user *models.User, currentPassword, newPassword, newPasswordConfirm string) (string, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return "", apperr.Validation("Incorrect current password")
	}
	if newPassword == "" || newPassword != newPasswordConfirm {
		return "", apperr.Validation("Passwords do not match")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return "", fmt.Errorf("failed to change password: %w", err)
	}

	return s.CreateToken(user.ID)
}

// CreateToken signs a session token embedding the user's identifier.
func (s *AuthService) CreateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) sendOtpEmail(user *models.User, subject, title, otp, message string) error {
	html, err := mailer.RenderOTP(mailer.OTPEmail{
		Title:    title,
		Username: user.Username,
		Otp:      otp,
		Message:  message,
	})
	if err != nil {
		return err
	}
	return s.mailer.Send(user.Email, subject, html)
}

// generateOtp returns a fixed-length numeric one-time code.
func generateOtp() (string, error) {
	const digits = "0123456789"
	buf := make([]byte, otpLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	for i := range buf {
		buf[i] = digits[int(buf[i])%len(digits)]
	}
	return string(buf), nil
}
