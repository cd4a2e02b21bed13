package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"kyc-desk.backend/internal/domain/entities"
	"kyc-desk.backend/internal/infrastructure/repositories"
	"kyc-desk.backend/internal/interfaces/http/handlers"
	"kyc-desk.backend/internal/interfaces/http/middleware"
	"kyc-desk.backend/internal/interfaces/http/validation"
	"kyc-desk.backend/internal/usecases"
	"kyc-desk.backend/pkg/crypto"
	"kyc-desk.backend/pkg/jwt"
)

// testServer wires real usecases over an in-memory database so handler tests
// exercise binding, routing and persistence together
type testServer struct {
	router      *gin.Engine
	jwtService  *jwt.JWTService
	accountRepo *repositories.AccountRepository
	kycRepo     *repositories.KYCRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.Register())

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	createSchema(t, db)

	accountRepo := repositories.NewAccountRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	kycRepo := repositories.NewKYCRepository(db)
	uow := repositories.NewUnitOfWork(db)

	jwtService := jwt.NewJWTService("access-secret", "refresh-secret", time.Minute, time.Hour)

	authUsecase := usecases.NewAuthUsecase(accountRepo, profileRepo, uow, jwtService, nil, nil, time.Hour)
	kycUsecase := usecases.NewKYCUsecase(kycRepo, accountRepo, nil)
	userUsecase := usecases.NewUserUsecase(accountRepo, profileRepo, uow)

	authMiddleware := middleware.AuthMiddleware(jwtService, nil)

	r := gin.New()

	v1 := r.Group("/api/v1")
	authHandler := handlers.NewAuthHandler(authUsecase)
	kycHandler := handlers.NewKYCHandler(kycUsecase)
	userHandler := handlers.NewUserHandler(userUsecase)

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authMiddleware, authHandler.Logout)

	kyc := v1.Group("/kyc")
	kyc.Use(authMiddleware)
	kyc.POST("", kycHandler.Create)
	kyc.GET("/me", kycHandler.FindOwn)
	kyc.GET("/pending", middleware.RequireOfficer(), kycHandler.FindPending)
	kyc.GET("/reviewed", middleware.RequireOfficer(), kycHandler.FindReviewed)
	kyc.GET("/:id", kycHandler.FindOne)
	kyc.PATCH("/:id", kycHandler.Update)
	kyc.PATCH("/:id/approve", middleware.RequireOfficer(), kycHandler.Approve)
	kyc.PATCH("/:id/reject", middleware.RequireOfficer(), kycHandler.Reject)

	users := v1.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", authMiddleware, middleware.RequireOfficer(), userHandler.FindAll)
	users.GET("/me", authMiddleware, userHandler.FindMe)
	users.GET("/:id", authMiddleware, middleware.RequireOfficer(), userHandler.FindOne)
	users.GET("/:id/profile", authMiddleware, userHandler.FindProfile)
	users.PATCH("/:id/profile", authMiddleware, userHandler.UpdateProfile)

	return &testServer{
		router:      r,
		jwtService:  jwtService,
		accountRepo: accountRepo,
		kycRepo:     kycRepo,
	}
}

func createSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	stmts := []string{
		`CREATE TABLE accounts (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			refresh_token_hash TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE profiles (
			id TEXT PRIMARY KEY,
			account_id TEXT UNIQUE NOT NULL,
			full_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT,
			date_of_birth DATETIME,
			address TEXT,
			city TEXT,
			country TEXT,
			nationality TEXT,
			occupation TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE kyc_records (
			id TEXT PRIMARY KEY,
			account_id TEXT UNIQUE NOT NULL,
			incomes TEXT NOT NULL,
			assets TEXT NOT NULL,
			liabilities TEXT NOT NULL,
			wealth_sources TEXT NOT NULL,
			investment_experience TEXT NOT NULL,
			risk_tolerance TEXT NOT NULL,
			net_worth TEXT NOT NULL,
			status TEXT NOT NULL,
			reviewed_at DATETIME,
			reviewed_by TEXT,
			reject_reason TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

// seedOfficer creates an OFFICER account directly and returns it with a live
// access token
func (s *testServer) seedOfficer(t *testing.T, username string) (*entities.Account, string) {
	t.Helper()
	hash, err := crypto.HashPassword("Off1cerPass@x")
	require.NoError(t, err)
	account := &entities.Account{
		Username:     username,
		PasswordHash: hash,
		Role:         entities.RoleOfficer,
	}
	require.NoError(t, s.accountRepo.Create(context.Background(), account))
	return account, s.token(t, account)
}

func (s *testServer) token(t *testing.T, account *entities.Account) string {
	t.Helper()
	pair, err := s.jwtService.GenerateTokenPair(account.ID, account.Username, string(account.Role))
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func registerBody(username string) map[string]interface{} {
	return map[string]interface{}{
		"username":    username,
		"password":    "Sup3rSecret@pw",
		"fullName":    "Jordan Smith",
		"email":       username + "@example.com",
		"phone":       "0812345678",
		"dateOfBirth": "1990-04-12",
		"address":     "1 Main St",
		"city":        "Bangkok",
		"country":     "Thailand",
		"nationality": "Thai",
		"occupation":  "Engineer",
	}
}

func disclosureBody() map[string]interface{} {
	return map[string]interface{}{
		"incomes": []map[string]interface{}{
			{"type": "SALARY", "amount": "5000"},
		},
		"assets": []map[string]interface{}{
			{"type": "REAL_ESTATE", "amount": "300000", "description": "condo"},
			{"type": "LIQUIDITY", "amount": "20000"},
		},
		"liabilities": []map[string]interface{}{
			{"type": "LOAN", "amount": "50000"},
		},
		"wealthSources": []map[string]interface{}{
			{"type": "INHERITANCE", "amount": "100000"},
		},
		"investmentExperience": "LESS_THAN_5_YEARS",
		"riskTolerance":        "THIRTY_PERCENT",
	}
}

// registerClient registers through the API and returns the parsed response
func (s *testServer) registerClient(t *testing.T, username string) map[string]interface{} {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", registerBody(username))
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())
	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	return resp
}
