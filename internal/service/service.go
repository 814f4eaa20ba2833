package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/paydown/finance-tracker/internal/config"
	"github.com/paydown/finance-tracker/internal/engine"
	"github.com/paydown/finance-tracker/internal/models"
	"github.com/paydown/finance-tracker/internal/repository"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.repo.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreateCardAccount records a new tracked card for the user
func (s *Service) CreateCardAccount(userID int64, card *models.CardAccount) error {
	card.UserID = userID
	if card.MinimumPaymentType == "" {
		card.MinimumPaymentType = string(engine.MinimumPaymentFixed)
	}
	if card.LastCycleAt.IsZero() {
		card.LastCycleAt = time.Now()
	}
	if err := s.repo.CreateCardAccount(card); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "card_id": card.ID}).Info("Card account created")
	return nil
}

// CreateLoan records a new tracked loan for the user
func (s *Service) CreateLoan(userID int64, loan *models.Loan) error {
	loan.UserID = userID
	if loan.PaymentCadence == "" {
		loan.PaymentCadence = string(engine.CadenceMonthly)
	}
	if loan.LastCycleAt.IsZero() {
		loan.LastCycleAt = time.Now()
	}
	if err := s.repo.CreateLoan(loan); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "loan_id": loan.ID}).Info("Loan created")
	return nil
}
