package controllers

import (
	"context"
	"sort"
	"time"

	"fitroom/middlewares"
	"fitroom/models"
	"fitroom/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asUser injects an authenticated user id the way the session middleware
// does, so handlers can be exercised without real tokens.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.UserIDKey, userID)
		c.Next()
	}
}

type fakeTrialStore struct {
	trials map[string]models.Trial
}

func newFakeTrialStore() *fakeTrialStore {
	return &fakeTrialStore{trials: map[string]models.Trial{}}
}

func (s *fakeTrialStore) ListTrials(_ context.Context, userID string) ([]models.Trial, error) {
	var out []models.Trial
	for _, t := range s.trials {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeTrialStore) CreateTrial(_ context.Context, userID, name string) (models.Trial, error) {
	if name == "" {
		name = "New Trial " + time.Now().Format("2006-01-02 15:04:05")
	}
	trial := models.Trial{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Messages:  []models.Message{},
		CreatedAt: time.Now(),
	}
	s.trials[trial.ID] = trial
	return trial, nil
}

func (s *fakeTrialStore) GetTrial(_ context.Context, id, userID string) (models.Trial, error) {
	trial, ok := s.trials[id]
	if !ok || trial.UserID != userID {
		return models.Trial{}, services.ErrNotFound
	}
	return trial, nil
}

func (s *fakeTrialStore) UpdateTrial(_ context.Context, id, userID string, messages []models.Message, name *string) (models.Trial, error) {
	trial, ok := s.trials[id]
	if !ok || trial.UserID != userID {
		return models.Trial{}, services.ErrNotFound
	}
	if messages != nil {
		trial.Messages = messages
	}
	if name != nil {
		trial.Name = *name
	}
	s.trials[id] = trial
	return trial, nil
}

func (s *fakeTrialStore) DeleteTrial(_ context.Context, id, userID string) error {
	trial, ok := s.trials[id]
	if !ok || trial.UserID != userID {
		return services.ErrNotFound
	}
	delete(s.trials, trial.ID)
	return nil
}

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (s *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return models.User{}, services.ErrEmailTaken
		}
	}
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Images:       []string{},
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, services.ErrNotFound
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) UpdateUserImages(_ context.Context, id string, images []string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, services.ErrNotFound
	}
	user.Images = images
	s.users[id] = user
	return user, nil
}

type fakeGenerator struct {
	calls    int
	response services.GenerateResponse
	contents []services.Content
}

func (g *fakeGenerator) GenerateContent(_ context.Context, contents []services.Content) (services.GenerateResponse, error) {
	g.calls++
	g.contents = contents
	return g.response, nil
}
