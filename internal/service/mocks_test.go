package service

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"time"

	"github.com/noah-isme/previsa-console/internal/models"
	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

type memoryCacheRepo struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{items: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.items {
		if ok, _ := path.Match(pattern, key); ok {
			delete(m.items, key)
		}
	}
	return nil
}

func newTestSnapshots() *CacheService {
	return NewCacheService(newMemoryCacheRepo(), nil, time.Hour, nil, true)
}

type countryRepoMock struct {
	countries []models.Country
	listErr   error
	createErr error
	calls     int
	created   []models.CountryRequest
	deleted   []string
}

func (m *countryRepoMock) List(ctx context.Context) ([]models.Country, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Country(nil), m.countries...), nil
}

func (m *countryRepoMock) Create(ctx context.Context, req models.CountryRequest) error {
	m.calls++
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, req)
	m.countries = append(m.countries, models.Country{ID: "c-new", CountryName: req.CountryName, CreatedAt: time.Now().UTC()})
	return nil
}

func (m *countryRepoMock) Update(ctx context.Context, id string, req models.CountryRequest) error {
	m.calls++
	for i := range m.countries {
		if m.countries[i].ID == id {
			m.countries[i].CountryName = req.CountryName
		}
	}
	return nil
}

func (m *countryRepoMock) Delete(ctx context.Context, id string) error {
	m.calls++
	m.deleted = append(m.deleted, id)
	kept := m.countries[:0]
	for _, c := range m.countries {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.countries = kept
	return nil
}

type jobRepoMock struct {
	jobs        []models.Job
	managerJobs []models.Job
	listErr     error
	calls       int
	created     []models.JobRequest
}

func (m *jobRepoMock) List(ctx context.Context) ([]models.Job, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]models.Job(nil), m.jobs...), nil
}

func (m *jobRepoMock) ListForManager(ctx context.Context, managerID string) ([]models.Job, error) {
	m.calls++
	return m.managerJobs, nil
}

func (m *jobRepoMock) Create(ctx context.Context, req models.JobRequest) error {
	m.calls++
	m.created = append(m.created, req)
	job := models.Job{ID: "j-new", JobTitle: req.JobTitle, WorkTime: req.WorkTime, Salary: req.Salary, Country: &models.CountryRef{ID: req.Country, CountryName: "Qatar"}}
	if req.ServiceCharge != nil {
		job.ServiceCharge = *req.ServiceCharge
	}
	if req.AdminCharge != nil {
		job.AdminCharge = *req.AdminCharge
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *jobRepoMock) Update(ctx context.Context, id string, req models.JobRequest) error {
	m.calls++
	return nil
}

func (m *jobRepoMock) Delete(ctx context.Context, id string) error {
	m.calls++
	return nil
}

type optionRepoMock struct {
	byManager  []models.Option
	byLead     map[string][]models.Option
	managerErr error
	calls      int
	updates    []string
}

func (m *optionRepoMock) ForManager(ctx context.Context, managerID string) ([]models.Option, error) {
	m.calls++
	if m.managerErr != nil {
		return nil, m.managerErr
	}
	return m.byManager, nil
}

func (m *optionRepoMock) ForLead(ctx context.Context, leadID string) ([]models.Option, error) {
	m.calls++
	return append([]models.Option(nil), m.byLead[leadID]...), nil
}

func (m *optionRepoMock) Update(ctx context.Context, optionID, jobID, responseMessage string) error {
	m.calls++
	m.updates = append(m.updates, optionID+"="+jobID)
	for leadID, options := range m.byLead {
		for i := range options {
			if options[i].ID == optionID {
				options[i].Job = &models.Job{ID: jobID}
				m.byLead[leadID] = options
			}
		}
	}
	for i := range m.byManager {
		if m.byManager[i].ID == optionID {
			m.byManager[i].Job = &models.Job{ID: jobID}
		}
	}
	return nil
}

type leadRepoMock struct {
	leads       map[string]*models.Lead
	list        []models.Lead
	listErr     error
	transferMsg string
	transferErr error
	calls       int
	getCalls    int
	transfers   []string
	rejected    []string
	onReject    func(leadID string)
}

func (m *leadRepoMock) Get(ctx context.Context, id string) (*models.Lead, error) {
	m.calls++
	m.getCalls++
	lead, ok := m.leads[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Form not found")
	}
	clone := *lead
	return &clone, nil
}

func (m *leadRepoMock) ListForManager(ctx context.Context, managerID, search string) ([]models.Lead, error) {
	m.calls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *leadRepoMock) Transfer(ctx context.Context, leadID, preVisaManagerID, finalVisaManagerID string) (string, error) {
	m.calls++
	if m.transferErr != nil {
		return "", m.transferErr
	}
	m.transfers = append(m.transfers, leadID+":"+preVisaManagerID+"->"+finalVisaManagerID)
	return m.transferMsg, nil
}

func (m *leadRepoMock) Reject(ctx context.Context, leadID string) (string, error) {
	m.calls++
	m.rejected = append(m.rejected, leadID)
	if m.onReject != nil {
		m.onReject(leadID)
	}
	return "Form rejected", nil
}

type managerRepoMock struct {
	managers []models.Manager
	search   string
}

func (m *managerRepoMock) FinalVisaManagers(ctx context.Context, search string) ([]models.Manager, error) {
	m.search = search
	return m.managers, nil
}
