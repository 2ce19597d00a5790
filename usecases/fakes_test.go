package usecases

import (
	"fmt"
	"sort"
	"time"

	"expense-server/entities"
	"expense-server/repositories"

	"github.com/google/uuid"
)

// In-memory repositories mirroring the SQL semantics the pg implementations
// rely on: newest-created-first user listing, date-descending expense pages,
// grouped sums sorted by descending total, ErrNotFound on absent records.

type fakeUserRepo struct {
	seq   int
	users []*entities.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{} }

func (r *fakeUserRepo) stamp() entities.Timestamp {
	r.seq++
	return entities.NewTimestamp(time.Now().Add(time.Duration(r.seq) * time.Millisecond))
}

func (r *fakeUserRepo) Create(user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := r.stamp()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entities.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetByEmail(email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetAll(emailFilter string) ([]entities.User, error) {
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

func (r *fakeUserRepo) Update(user *entities.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			user.UpdatedAt = r.stamp()
			clone := *user
			clone.CreatedAt = r.users[i].CreatedAt
			r.users[i] = &clone
			return nil
		}
	}
	return repositories.ErrNotFound
}

type fakeExpenseRepo struct {
	expenses []*entities.Expense
}

func newFakeExpenseRepo() *fakeExpenseRepo { return &fakeExpenseRepo{} }

func (r *fakeExpenseRepo) Create(expense *entities.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := entities.NewTimestamp(time.Now())
	expense.CreatedAt = now
	expense.UpdatedAt = now
	clone := *expense
	r.expenses = append(r.expenses, &clone)
	return nil
}

func (r *fakeExpenseRepo) GetByID(id string) (*entities.Expense, error) {
	for _, e := range r.expenses {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeExpenseRepo) matches(e *entities.Expense, filter repositories.ExpenseFilter) bool {
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

func (r *fakeExpenseRepo) ListByUser(filter repositories.ExpenseFilter) ([]entities.Expense, int64, error) {
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

func (r *fakeExpenseRepo) Update(expense *entities.Expense) error {
	for i, e := range r.expenses {
		if e.ID == expense.ID {
			expense.UpdatedAt = entities.NewTimestamp(time.Now())
			clone := *expense
			clone.CreatedAt = r.expenses[i].CreatedAt
			r.expenses[i] = &clone
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeExpenseRepo) Delete(id string) error {
	for i, e := range r.expenses {
		if e.ID == id {
			r.expenses = append(r.expenses[:i], r.expenses[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeExpenseRepo) TotalForRange(userID string, start, end time.Time) (float64, int64, error) {
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

func (r *fakeExpenseRepo) TotalsByCategory(userID string, start, end time.Time) ([]repositories.CategoryTotal, error) {
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

type recordedEvent struct {
	Type string
	Data any
}

type fakePublisher struct {
	events []recordedEvent
}

func (p *fakePublisher) Publish(eventType string, data any) {
	p.events = append(p.events, recordedEvent{Type: eventType, Data: data})
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func dateStr(t time.Time) *string { s := t.Format("2006-01-02"); return &s }

func mustUUID(n int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprint(n))).String()
}
