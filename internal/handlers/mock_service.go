package handlers

import (
	"context"
	"time"

	"expense_tracker/internal/models"
	"expense_tracker/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerID    int64
	registerErr   error
	authUser      *models.User
	authErr       error
	genTokenToken string
	genTokenErr   error
	parseID       int64
	parseErr      error
	users         map[int64]*models.User

	lastRegisterEmail string
	lastAuthEmail     string
	lastParseToken    string
}

func (m *mockAuth) Register(_ context.Context, username, email, password string) (int64, error) {
	m.lastRegisterEmail = email
	return m.registerID, m.registerErr
}
func (m *mockAuth) Authenticate(_ context.Context, email, password string) (*models.User, error) {
	m.lastAuthEmail = email
	return m.authUser, m.authErr
}
func (m *mockAuth) User(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrAuthFailure
}
func (m *mockAuth) GenerateToken(_ context.Context, email, password string) (string, error) {
	m.lastAuthEmail = email
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int64, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockSessions resolves tokens from a fixed map.
type mockSessions struct {
	byToken  map[string]models.Session
	renew    bool
	err      error
	started  []int64
	ended    []string
	startErr error
}

func (m *mockSessions) Start(_ context.Context, userID int64) (models.Session, error) {
	if m.startErr != nil {
		return models.Session{}, m.startErr
	}
	m.started = append(m.started, userID)
	s := models.Session{Token: "new-token", UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}
	if m.byToken == nil {
		m.byToken = map[string]models.Session{}
	}
	m.byToken[s.Token] = s
	return s, nil
}
func (m *mockSessions) Resolve(_ context.Context, token string) (models.Session, bool, error) {
	if m.err != nil {
		return models.Session{}, false, m.err
	}
	s, ok := m.byToken[token]
	if !ok {
		return models.Session{}, false, service.ErrSessionNotFound
	}
	return s, m.renew, nil
}
func (m *mockSessions) End(_ context.Context, token string) error {
	m.ended = append(m.ended, token)
	delete(m.byToken, token)
	return nil
}
func (m *mockSessions) PurgeExpired(context.Context) (int64, error) { return 0, nil }
func (m *mockSessions) TTL() time.Duration                          { return time.Hour }

type addCall struct {
	userID int64
	in     models.ExpenseInput
}

type updateCall struct {
	userID, id int64
	in         models.ExpenseInput
}

type mockExpenses struct {
	cats      []models.Category
	list      []models.ExpenseView
	listErr   error
	get       *models.Expense
	getErr    error
	addResult models.Expense
	addErr    error
	updateErr error
	deleteErr error

	adds    []addCall
	updates []updateCall
	deletes []int64
}

func (m *mockExpenses) Categories(context.Context) ([]models.Category, error) { return m.cats, nil }
func (m *mockExpenses) SeedCategories(context.Context, []string) (int, error) { return 0, nil }
func (m *mockExpenses) Add(_ context.Context, userID int64, in models.ExpenseInput) (models.Expense, error) {
	m.adds = append(m.adds, addCall{userID: userID, in: in})
	return m.addResult, m.addErr
}
func (m *mockExpenses) List(context.Context, int64) ([]models.ExpenseView, error) {
	return m.list, m.listErr
}
func (m *mockExpenses) Get(context.Context, int64, int64) (*models.Expense, error) {
	return m.get, m.getErr
}
func (m *mockExpenses) Update(_ context.Context, userID, id int64, in models.ExpenseInput) (models.Expense, error) {
	m.updates = append(m.updates, updateCall{userID: userID, id: id, in: in})
	return models.Expense{ID: id, UserID: userID, Amount: in.Amount, Date: in.Date}, m.updateErr
}
func (m *mockExpenses) Delete(_ context.Context, userID, id int64) error {
	m.deletes = append(m.deletes, id)
	return m.deleteErr
}

type mockSummaries struct {
	summary models.Summary
	err     error
}

func (m *mockSummaries) Summary(context.Context, int64) (models.Summary, error) {
	return m.summary, m.err
}

type mockActivity struct {
	resp     []models.ActivityEvent
	err      error
	recorded []string
	lastUser int64
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockActivity) Record(_ context.Context, userID int64, typ, description string, meta any) error {
	m.recorded = append(m.recorded, typ)
	return nil
}

func (m *mockActivity) List(_ context.Context, userID int64, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.lastUser = userID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}
