package httpHandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"expense-server/entities"
	"expense-server/repositories"
	"expense-server/usecases"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)


type memUserRepo struct {
	seq   int
	users []*entities.User
}

func (r *memUserRepo) Create(user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.seq++
	now := entities.NewTimestamp(time.Now().Add(time.Duration(r.seq) * time.Millisecond))
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memUserRepo) GetByEmail(email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetAll(emailFilter string) ([]entities.User, error) {
	var out []entities.User
	for _, u := range r.users {
		if emailFilter == "" || u.Email == emailFilter {
			out = append(out, *u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Time.After(out[j].CreatedAt.Time)
	})
	return out, nil
}

func (r *memUserRepo) Update(user *entities.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return repositories.ErrNotFound
}

type memExpenseRepo struct {
	expenses []*entities.Expense
}

func (r *memExpenseRepo) Create(expense *entities.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	clone := *expense
	r.expenses = append(r.expenses, &clone)
	return nil
}

func (r *memExpenseRepo) GetByID(id string) (*entities.Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memExpenseRepo) matches(e *entities.Expense, filter repositories.ExpenseFilter) bool {
	if e.UserID != filter.UserID {
		return false
	}
	if filter.Category != "" && e.Category != filter.Category {
		return false
	}
	if filter.Start != nil && e.Date.Time.Before(*filter.Start) {
		return false
	}
	if filter.End != nil && e.Date.Time.After(*filter.End) {
		return false
	}
	return true
}

func (r *memExpenseRepo) ListByUser(filter repositories.ExpenseFilter) ([]entities.Expense, int64, error) {
	var all []entities.Expense
	for _, e := range r.expenses {
		if r.matches(e, filter) {
			all = append(all, *e)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Time.After(all[j].Date.Time)
	})
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return []entities.Expense{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[filter.Offset:end], total, nil
}

func (r *memExpenseRepo) Update(expense *entities.Expense) error {
	for i, e := range r.expenses {
		if e.ID == expense.ID {
			clone := *expense
			r.expenses[i] = &clone
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memExpenseRepo) Delete(id string) error {
	for i, e := range r.expenses {
		if e.ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *memExpenseRepo) TotalForRange(userID string, start, end time.Time) (float64, int64, error) {
	filter := repositories.ExpenseFilter{UserID: userID, Start: &start, End: &end}
	var total float64
	var count int64
	for _, e := range r.expenses {
		if r.matches(e, filter) {
			total += e.Amount
			count++
		}
	}
	return total, count, nil
}

func (r *memExpenseRepo) TotalsByCategory(userID string, start, end time.Time) ([]repositories.CategoryTotal, error) {
	filter := repositories.ExpenseFilter{UserID: userID, Start: &start, End: &end}
	byCategory := map[string]*repositories.CategoryTotal{}
	for _, e := range r.expenses {
		if !r.matches(e, filter) {
			continue
		}
		row, ok := byCategory[e.Category]
		if !ok {
			row = &repositories.CategoryTotal{Category: e.Category}
			byCategory[e.Category] = row
		}
		row.Total += e.Amount
		row.Count++
	}
	var out []repositories.CategoryTotal
	for _, row := range byCategory {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

// newTestRouter wires the real handlers and usecases over the in-memory
// repositories, mirroring server.setup without the database.
func newTestRouter(userRepo *memUserRepo, expenseRepo *memExpenseRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	userUC := usecases.NewUserUseCase(userRepo, nil, nil)
	expenseUC := usecases.NewExpenseUseCase(expenseRepo, userRepo, nil, nil, 10, 100)
	summaryUC := usecases.NewSummaryUseCase(userRepo, expenseRepo, nil)

	userHandler := NewUserHandler(userUC)
	expenseHandler := NewExpenseHandler(expenseUC)
	summaryHandler := NewSummaryHandler(summaryUC)

	api := r.Group("/api")
	{
		api.POST("/users", userHandler.CreateUser)
		api.GET("/users", userHandler.GetAllUsers)
		api.GET("/users/:id", userHandler.GetUser)
		api.PUT("/users/:id", userHandler.UpdateUser)
		api.PATCH("/users/:id", userHandler.PatchUser)
		api.POST("/users/:id/change-email", userHandler.ChangeEmail)
		api.GET("/users/:id/expenses", expenseHandler.GetUserExpenses)
		api.GET("/users/:id/summary", summaryHandler.GetUserSummary)
		api.POST("/expenses", expenseHandler.CreateExpense)
		api.GET("/expenses/user/:id", expenseHandler.GetUserExpenses)
		api.PUT("/expenses/:id", expenseHandler.UpdateExpense)
		api.PATCH("/expenses/:id", expenseHandler.PatchExpense)
		api.DELETE("/expenses/:id", expenseHandler.DeleteExpense)
		api.GET("/summary/:id", summaryHandler.GetUserSummary)
	}
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), "response is always JSON: %s", w.Body.String())
	return w, decoded
}

func createUserViaAPI(t *testing.T, r *gin.Engine, name, email string, budget float64) string {
	t.Helper()
	w, resp := do(t, r, http.MethodPost, "/api/users",
		`{"name":"`+name+`","email":"`+email+`","monthlyBudget":`+jsonNumber(budget)+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	return data["id"].(string)
}

func jsonNumber(f float64) string {
	b, _ := json.Marshal(f)
	return string(b)
}
