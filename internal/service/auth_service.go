package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"hospital-directory/internal/models"
	"hospital-directory/internal/repository"
	"hospital-directory/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
)

// PasswordHasher turns raw passwords into salted one-way hashes and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

const tokenScheme = "Token"

// bcrypt ignores input past this many bytes
const maxPasswordBytes = 72

// tokenMintAttempts bounds retries when a freshly generated token is already registered.
const tokenMintAttempts = 3

type AuthService struct {
	hospitalRepo *repository.HospitalRepository
	sessions     session.Store
	hasher       PasswordHasher
	validate     *validator.Validate
	log          *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(
	hospitalRepo *repository.HospitalRepository,
	sessions session.Store,
	hasher PasswordHasher,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		hospitalRepo: hospitalRepo,
		sessions:     sessions,
		hasher:       hasher,
		validate:     newValidator(),
		log:          log,
	}
}

// RegisterInput is the profile submitted at registration.
type RegisterInput struct {
	Email     string   `json:"email" validate:"required,email,max=254"`
	Password  string   `json:"password" validate:"required,max=72"`
	Name      string   `json:"name" validate:"required,max=255"`
	Address   string   `json:"address" validate:"required,max=500"`
	Phone     string   `json:"phone" validate:"required,max=50"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token      session.Token `json:"token"`
	HospitalID uint          `json:"hospital_id"`
}

// Register creates a new hospital account. The password is hashed before anything is stored.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Hospital, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := checkInput(s.validate, in); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	// Check if email already exists
	_, err := s.hospitalRepo.GetHospitalByEmail(ctx, in.Email)
	if err == nil {
		return nil, emailTakenError()
	}
	if !errors.Is(err, repository.ErrHospitalNotFound) {
		return nil, oops.Code("HOSPITAL_LOOKUP_FAILED").With("email", in.Email).Wrap(err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").Wrap(err)
	}

	hospital := &models.Hospital{
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Latitude:  *in.Latitude,
		Longitude: *in.Longitude,
		Email:     in.Email,
		Password:  passwordHash,
	}

	if err := s.hospitalRepo.CreateHospital(ctx, hospital); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, emailTakenError()
		}
		return nil, oops.Code("HOSPITAL_CREATE_FAILED").With("email", in.Email).Wrap(err)
	}

	s.log.InfoContext(ctx, "hospital registered", "hospital_id", hospital.ID)

	return hospital, nil
}

// Login checks credentials and issues a new session token.
// Unknown email and wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	hospital, err := s.hospitalRepo.GetHospitalByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			// burn a hash comparison so both failure paths take similar time
			_, _ = s.hasher.Verify(password, s.dummyPasswordHash())
			s.log.DebugContext(ctx, "login failed", "reason", "unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, oops.Code("HOSPITAL_LOOKUP_FAILED").Wrap(err)
	}

	ok, err := s.hasher.Verify(password, hospital.Password)
	if err != nil {
		s.log.WarnContext(ctx, "stored password hash is unreadable", "hospital_id", hospital.ID, "err", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.log.DebugContext(ctx, "login failed", "reason", "password_mismatch", "hospital_id", hospital.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, hospital.ID)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "hospital logged in", "hospital_id", hospital.ID)

	return &LoginResult{Token: token, HospitalID: hospital.ID}, nil
}

// Resolve maps an Authorization header value ("Token <value>") to the hospital it was issued for.
// Every identity-dependent operation goes through here.
func (s *AuthService) Resolve(ctx context.Context, authorization string) (*models.Hospital, error) {
	token, err := ParseAuthorization(authorization)
	if err != nil {
		return nil, err
	}
	return s.ResolveToken(ctx, token)
}

// ResolveToken maps a bare token to its hospital.
func (s *AuthService) ResolveToken(ctx context.Context, token session.Token) (*models.Hospital, error) {
	hospitalID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, oops.Code("SESSION_LOOKUP_FAILED").Wrap(err)
	}

	hospital, err := s.hospitalRepo.GetHospitalByID(ctx, hospitalID)
	if err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return nil, ErrNotFound
		}
		return nil, oops.Code("HOSPITAL_LOOKUP_FAILED").With("hospital_id", hospitalID).Wrap(err)
	}

	return hospital, nil
}

// ParseAuthorization extracts the token from an Authorization header using the Token scheme.
func ParseAuthorization(header string) (session.Token, error) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || scheme != tokenScheme {
		return "", ErrUnauthenticated
	}

	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t") {
		return "", ErrUnauthenticated
	}

	return session.Token(value), nil
}

func (s *AuthService) issueToken(ctx context.Context, hospitalID uint) (session.Token, error) {
	var lastErr error
	for i := 0; i < tokenMintAttempts; i++ {
		token, err := session.NewToken()
		if err != nil {
			return "", oops.Code("TOKEN_GENERATE_FAILED").Wrap(err)
		}

		err = s.sessions.Put(ctx, token, hospitalID)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, session.ErrTokenExists) {
			return "", oops.Code("SESSION_STORE_FAILED").With("hospital_id", hospitalID).Wrap(err)
		}
		lastErr = err
	}
	return "", oops.Code("TOKEN_COLLISION").With("attempts", tokenMintAttempts).Wrap(lastErr)
}

func (s *AuthService) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("hospital-directory-timing-guard")
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) error {
	if len(password) > maxPasswordBytes {
		return newValidationError("invalid input", map[string]string{
			"password": "must be at most 72 bytes",
		})
	}
	return nil
}

func emailTakenError() error {
	return newValidationError("hospital with this email already exists", map[string]string{
		"email": "hospital with this email already exists",
	})
}
