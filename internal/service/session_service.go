package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type sessionRepository interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	DeleteForManager(ctx context.Context, managerID string) (int, error)
}

type auditRecorder interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// SessionConfig defines how session tokens are signed.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// SessionService issues and checks the console session of a Pre-Visa manager.
type SessionService struct {
	repo      sessionRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    SessionConfig
	now       func() time.Time
}

// NewSessionService constructs a SessionService. audit may be nil.
func NewSessionService(repo sessionRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, config SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TTL <= 0 {
		config.TTL = 12 * time.Hour
	}
	return &SessionService{repo: repo, audit: audit, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login opens a session for the manager and returns its signed token.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	trimmed(&req.ManagerID, &req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithFields(appErrors.ErrValidation, "invalid login payload", map[string]string{"managerId": "Manager id is required"})
	}

	issuedAt := s.now().UTC()
	session := &models.Session{
		ID:          uuid.NewString(),
		ManagerID:   req.ManagerID,
		ManagerName: req.Name,
		CreatedAt:   issuedAt,
		ExpiresAt:   issuedAt.Add(s.config.TTL),
	}

	token, err := s.sign(session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	s.record(ctx, &models.AuditLog{
		ManagerID:  &session.ManagerID,
		Action:     models.AuditActionLogin,
		Resource:   "session",
		ResourceID: &session.ID,
		NewValues:  []byte(`{"status":"success"}`),
		IPAddress:  req.IP,
		UserAgent:  req.UserAgent,
	})

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.TTL.Seconds()),
		Session:   *session,
		IssuedAt:  issuedAt,
	}, nil
}

// Validate parses a session token and checks its session is still live.
func (s *SessionService) Validate(ctx context.Context, tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.ManagerID == "" || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}

	if _, err := s.repo.Get(ctx, claims.ID); err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return claims, nil
}

// Current returns the session record behind claims.
func (s *SessionService) Current(ctx context.Context, claims *models.SessionClaims) (*models.Session, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	session, err := s.repo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session has ended")
		}
		return nil, err
	}
	return session, nil
}

// Logout ends every session of the manager once the caller has confirmed.
func (s *SessionService) Logout(ctx context.Context, managerID string, confirmed bool, meta models.LoginRequest) error {
	if !confirmed {
		return appErrors.Clone(appErrors.ErrConfirmationRequired, "Are you sure you want to logout?")
	}
	removed, err := s.repo.DeleteForManager(ctx, managerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end sessions")
	}
	s.logger.Info("manager logged out", zap.String("manager_id", managerID), zap.Int("sessions", removed))

	s.record(ctx, &models.AuditLog{
		ManagerID: &managerID,
		Action:    models.AuditActionLogout,
		Resource:  "session",
		NewValues: []byte(`{"status":"logout"}`),
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	})
	return nil
}

func (s *SessionService) sign(session *models.Session) (string, error) {
	claims := models.SessionClaims{
		ManagerID:   session.ManagerID,
		ManagerName: session.ManagerName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.ManagerID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *SessionService) record(ctx context.Context, entry *models.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record session audit log", zap.String("action", entry.Action), zap.Error(err))
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
