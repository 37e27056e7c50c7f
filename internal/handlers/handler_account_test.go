package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/invoicing_app/internal/apperrors"
	"github.com/SscSPs/invoicing_app/internal/core/domain"
	portssvc "github.com/SscSPs/invoicing_app/internal/core/ports/services"
	"github.com/SscSPs/invoicing_app/internal/dto"
	"github.com/SscSPs/invoicing_app/internal/handlers"
	"github.com/SscSPs/invoicing_app/internal/middleware"
	"github.com/SscSPs/invoicing_app/internal/platform/config"
)

const (
	testJWTSecret = "test-secret-key-that-is-long-enough"
	testIssuer    = "invoicing-test"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}
func (m *MockAccountService) SeedDefaultAccounts(ctx context.Context, includeTax bool, userID string) ([]domain.Account, int, error) {
	args := m.Called(ctx, includeTax, userID)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Int(1), args.Error(2)
}
func (m *MockAccountService) ResolveAccount(ctx context.Context, role domain.AccountRole) (*domain.Account, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// newTestRouter wires the real routes and auth middleware around the given services.
func newTestRouter(services *portssvc.ServiceContainer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(slog.Default()))
	cfg := &config.Config{
		IsProduction: true,
		JWTSecret:    testJWTSecret,
		JWTIssuer:    testIssuer,
	}
	handlers.RegisterRoutes(r, cfg, services, nil)
	return r
}

// generateTestToken creates a signed JWT for testing.
func generateTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func newJSONRequest(t *testing.T, method, url string, body interface{}, userID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("failed to encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+generateTestToken(t, userID))
	}
	return req
}

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockAccountService *MockAccountService
	userID             string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	suite.mockAccountService = new(MockAccountService)
	suite.router = newTestRouter(&portssvc.ServiceContainer{Account: suite.mockAccountService})
	suite.userID = uuid.NewString()
}

func (suite *AccountHandlerTestSuite) TearDownTest() {
	suite.mockAccountService.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Name: "Office Rent", AccountType: domain.Expense, Code: "5100"}
	created := &domain.Account{AccountID: uuid.NewString(), Name: req.Name, AccountType: req.AccountType, Code: req.Code}

	suite.mockAccountService.On("CreateAccount", mock.Anything, req, suite.userID).Return(created, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/accounts", req, suite.userID))

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.Equal("5100", resp.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_InvalidType() {
	body := `{"name":"Mystery","accountType":"EXOTIC"}`

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/accounts", body, suite.userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountService.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_DuplicateName() {
	req := dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset}
	suite.mockAccountService.On("CreateAccount", mock.Anything, req, suite.userID).
		Return(nil, apperrors.NewAppError(apperrors.ErrDuplicate, "account name already exists", nil)).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/accounts", req, suite.userID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_Unauthorized() {
	req := dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset}

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/accounts", req, ""))

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.NewNotFoundError("account", accountID)).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodGet, "/api/v1/accounts/"+accountID, nil, suite.userID))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestListAccounts_Success() {
	accounts := []domain.Account{
		{AccountID: uuid.NewString(), Name: "Cash", AccountType: domain.Asset, Code: "1000"},
		{AccountID: uuid.NewString(), Name: "Sales", AccountType: domain.Income, Code: "4000"},
	}
	suite.mockAccountService.On("ListAccounts", mock.Anything).Return(accounts, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodGet, "/api/v1/accounts", nil, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	suite.Equal("Cash", resp.Accounts[0].Name)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_InUse() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, accountID).Return(apperrors.ErrAccountInUse).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodDelete, "/api/v1/accounts/"+accountID, nil, suite.userID))

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *AccountHandlerTestSuite) TestDeleteAccount_Success() {
	accountID := uuid.NewString()
	suite.mockAccountService.On("DeleteAccount", mock.Anything, accountID).Return(nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodDelete, "/api/v1/accounts/"+accountID, nil, suite.userID))

	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *AccountHandlerTestSuite) TestSeedAccounts_WithTax() {
	created := []domain.Account{{AccountID: uuid.NewString(), Name: "Tax Payable", AccountType: domain.Liability}}
	suite.mockAccountService.On("SeedDefaultAccounts", mock.Anything, true, suite.userID).Return(created, 7, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/accounts/seed", dto.SeedAccountsRequest{IncludeTax: true}, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.SeedAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Created, 1)
	suite.Equal(7, resp.Existing)
}

func (suite *AccountHandlerTestSuite) TestSeedAccounts_EmptyBody() {
	suite.mockAccountService.On("SeedDefaultAccounts", mock.Anything, false, suite.userID).Return([]domain.Account{}, 8, nil).Once()

	w := suite.serve(newJSONRequest(suite.T(), http.MethodPost, "/api/v1/accounts/seed", nil, suite.userID))

	suite.Equal(http.StatusOK, w.Code)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
