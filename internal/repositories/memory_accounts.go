package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"
)

// MemoryUserRepository is the in-process counterpart of UserRepository.
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[int64]models.User{}}
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id int64) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, domain.NotFoundError{Resource: "user"}
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar"}
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = utils.NowUTC()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) UpdateUserType(_ context.Context, id int64, userType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	u.UserType = userType
	r.users[id] = u
	return nil
}

// MemoryDriverRepository is the in-process driver roster. Names and phones
// are joined from users and ListOnline consults statuses, mirroring the SQL
// join in DriverRepository.
type MemoryDriverRepository struct {
	mu       sync.Mutex
	drivers  map[int64]models.Driver
	users    *MemoryUserRepository
	statuses *MemoryVerificationStore
}

func NewMemoryDriverRepository(users *MemoryUserRepository, statuses *MemoryVerificationStore) *MemoryDriverRepository {
	return &MemoryDriverRepository{drivers: map[int64]models.Driver{}, users: users, statuses: statuses}
}

func (r *MemoryDriverRepository) SetOnlineStatus(_ context.Context, driverID int64, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.drivers[driverID]
	d.ID = driverID
	d.IsOnline = online
	d.UpdatedAt = utils.NowUTC()
	r.drivers[driverID] = d
	return nil
}

func (r *MemoryDriverRepository) SetLocation(_ context.Context, driverID int64, loc models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return domain.NotFoundError{Resource: "driver"}
	}
	d.Location = &loc
	d.UpdatedAt = utils.NowUTC()
	r.drivers[driverID] = d
	return nil
}

func (r *MemoryDriverRepository) GetByID(ctx context.Context, driverID int64) (models.Driver, error) {
	r.mu.Lock()
	d, ok := r.drivers[driverID]
	r.mu.Unlock()
	if !ok {
		return models.Driver{}, domain.NotFoundError{Resource: "driver"}
	}
	return r.withProfile(ctx, d), nil
}

func (r *MemoryDriverRepository) ListOnline(ctx context.Context) ([]models.Driver, error) {
	r.mu.Lock()
	candidates := make([]models.Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		if d.IsOnline {
			candidates = append(candidates, d)
		}
	}
	r.mu.Unlock()

	out := []models.Driver{}
	for _, d := range candidates {
		if r.statuses != nil {
			st, err := r.statuses.GetStatus(ctx, d.ID)
			if err != nil || !st.IsVerified {
				continue
			}
		}
		out = append(out, r.withProfile(ctx, d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemoryDriverRepository) withProfile(ctx context.Context, d models.Driver) models.Driver {
	if d.Location != nil {
		loc := *d.Location
		d.Location = &loc
	}
	if r.users == nil {
		return d
	}
	if u, err := r.users.GetByID(ctx, d.ID); err == nil {
		d.Name = u.Name
		d.Phone = u.Phone
	}
	return d
}
