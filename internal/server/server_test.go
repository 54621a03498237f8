package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"lexdesk/internal/cleanup"
	"lexdesk/internal/storage"
	"lexdesk/internal/tenant"
	"lexdesk/internal/utils"
	"lexdesk/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// memoryStore implements every store interface the handlers consume,
// with the same tenant-scoping and sentinel-error contract as the pgx
// repositories.
type memoryStore struct {
	mu       sync.Mutex
	users    map[string]*types.User
	cases    map[string]*types.Case
	docs     map[string]*types.CaseDocument
	hearings map[string]*types.Hearing

	purgedPrefixes []string
	purgeResults   map[string]cleanup.Result

	notifications []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        make(map[string]*types.User),
		cases:        make(map[string]*types.Case),
		docs:         make(map[string]*types.CaseDocument),
		hearings:     make(map[string]*types.Hearing),
		purgeResults: make(map[string]cleanup.Result),
	}
}

// --- UserStore

func (m *memoryStore) UserByID(ctx context.Context, userID string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryStore) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (m *memoryStore) CreateUser(ctx context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return types.ErrDuplicateEmail
		}
	}

	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryStore) UpdateUser(ctx context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return types.ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryStore) TouchLastLogin(ctx context.Context, userID string) error { return nil }

func (m *memoryStore) TeamMembers(ctx context.Context, tenantID string) ([]*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.User, 0)
	for _, u := range m.users {
		if u.AdvocateID != nil && *u.AdvocateID == tenantID && u.HasRole(types.RoleTeamMember) {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memoryStore) UpsertUserByEmail(ctx context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			updated := *u
			updated.AdvocateID = user.AdvocateID
			updated.Roles = user.Roles
			updated.Name = user.Name
			updated.Phone = user.Phone
			updated.Address = user.Address
			m.users[id] = &updated
			return nil
		}
	}

	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

// --- ClientStore

func (m *memoryStore) clientsOf(tenantID string) []*types.User {
	out := make([]*types.User, 0)
	for _, u := range m.users {
		if u.AdvocateID != nil && *u.AdvocateID == tenantID && u.HasRole(types.RoleClient) {
			copied := *u
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryStore) Clients(ctx context.Context, tenantID string, filter types.ClientFilter) ([]*types.User, types.Pagination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clients := m.clientsOf(tenantID)
	return clients, types.Pagination{Page: 1, Limit: 10, Total: uint64(len(clients)), Pages: 1}, nil
}

func (m *memoryStore) Client(ctx context.Context, tenantID, clientID string) (*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[clientID]
	if !ok || u.AdvocateID == nil || *u.AdvocateID != tenantID || !u.HasRole(types.RoleClient) {
		return nil, types.ErrClientNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryStore) CreateClient(ctx context.Context, client *types.User) error {
	client.Roles = []types.Role{types.RoleClient}
	return m.CreateUser(ctx, client)
}

func (m *memoryStore) UpdateClient(ctx context.Context, tenantID string, client *types.User) error {
	if _, err := m.Client(ctx, tenantID, client.ID); err != nil {
		return err
	}
	return m.UpdateUser(ctx, client)
}

func (m *memoryStore) DeleteClient(ctx context.Context, tenantID, clientID string) error {
	if _, err := m.Client(ctx, tenantID, clientID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, clientID)
	return nil
}

func (m *memoryStore) AllClients(ctx context.Context, tenantID string) ([]*types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clientsOf(tenantID), nil
}

// --- CaseStore

func (m *memoryStore) Cases(ctx context.Context, tenantID string, filter types.CaseFilter) ([]*types.Case, types.Pagination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Case, 0)
	for _, c := range m.cases {
		if c.AdvocateID != tenantID {
			continue
		}
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		copied := *c
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, types.Pagination{Page: 1, Limit: 10, Total: uint64(len(out)), Pages: 1}, nil
}

func (m *memoryStore) Case(ctx context.Context, tenantID, caseID string) (*types.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cases[caseID]
	if !ok || c.AdvocateID != tenantID {
		return nil, types.ErrCaseNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memoryStore) CasesByClient(ctx context.Context, tenantID, clientID string) ([]*types.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Case, 0)
	for _, c := range m.cases {
		if c.AdvocateID == tenantID && c.ClientID == clientID {
			copied := *c
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) CreateCase(ctx context.Context, c *types.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.cases {
		if existing.AdvocateID == c.AdvocateID && existing.CaseNumber == c.CaseNumber {
			return types.ErrDuplicateCaseNumber
		}
	}

	if c.ID == "" {
		c.ID = utils.NanoID()
	}
	if c.Notes == nil {
		c.Notes = []types.CaseNote{}
	}
	if c.Tasks == nil {
		c.Tasks = []types.CaseTask{}
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	copied := *c
	m.cases[c.ID] = &copied
	return nil
}

func (m *memoryStore) UpdateCase(ctx context.Context, tenantID string, c *types.Case) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.cases[c.ID]
	if !ok || existing.AdvocateID != tenantID {
		return types.ErrCaseNotFound
	}
	copied := *c
	copied.AdvocateID = tenantID
	m.cases[c.ID] = &copied
	return nil
}

func (m *memoryStore) DeleteCase(ctx context.Context, tenantID, caseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.cases[caseID]
	if !ok || c.AdvocateID != tenantID {
		return types.ErrCaseNotFound
	}
	delete(m.cases, caseID)
	return nil
}

func (m *memoryStore) DeleteCasesByClient(ctx context.Context, tenantID, clientID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0)
	for id, c := range m.cases {
		if c.AdvocateID == tenantID && c.ClientID == clientID {
			ids = append(ids, id)
			delete(m.cases, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryStore) ActiveCaseCount(ctx context.Context, tenantID, clientID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, c := range m.cases {
		if c.AdvocateID == tenantID && c.ClientID == clientID && c.Status.BlocksClientDelete() {
			count++
		}
	}
	return count, nil
}

func (m *memoryStore) AllCases(ctx context.Context, tenantID string) ([]*types.Case, error) {
	cases, _, err := m.Cases(ctx, tenantID, types.CaseFilter{})
	return cases, err
}

func (m *memoryStore) DeleteAllCases(ctx context.Context, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, c := range m.cases {
		if c.AdvocateID == tenantID {
			delete(m.cases, id)
		}
	}
	return nil
}

func (m *memoryStore) CreateCases(ctx context.Context, cases []*types.Case) error {
	for _, c := range cases {
		m.mu.Lock()
		if c.ID == "" {
			c.ID = utils.NanoID()
		}
		copied := *c
		m.cases[c.ID] = &copied
		m.mu.Unlock()
	}
	return nil
}

// --- DocumentStore

func (m *memoryStore) Document(ctx context.Context, tenantID, documentID string) (*types.CaseDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[documentID]
	if !ok || d.AdvocateID != tenantID {
		return nil, types.ErrDocumentNotFound
	}
	copied := *d
	return &copied, nil
}

func (m *memoryStore) DocumentsByCase(ctx context.Context, tenantID, caseID string) ([]*types.CaseDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.CaseDocument, 0)
	for _, d := range m.docs {
		if d.AdvocateID == tenantID && d.CaseID == caseID {
			copied := *d
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) CreateDocument(ctx context.Context, doc *types.CaseDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if doc.ID == "" {
		doc.ID = utils.NanoID()
	}
	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *memoryStore) DeleteDocument(ctx context.Context, tenantID, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.docs[documentID]
	if !ok || d.AdvocateID != tenantID {
		return types.ErrDocumentNotFound
	}
	delete(m.docs, documentID)
	return nil
}

// --- HearingStore

func (m *memoryStore) Hearings(ctx context.Context, tenantID string, filter types.HearingFilter) ([]*types.Hearing, types.Pagination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Hearing, 0)
	for _, h := range m.hearings {
		if h.AdvocateID == tenantID {
			copied := *h
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, types.Pagination{Page: 1, Limit: 10, Total: uint64(len(out)), Pages: 1}, nil
}

func (m *memoryStore) Hearing(ctx context.Context, tenantID, hearingID string) (*types.Hearing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.hearings[hearingID]
	if !ok || h.AdvocateID != tenantID {
		return nil, types.ErrHearingNotFound
	}
	copied := *h
	return &copied, nil
}

func (m *memoryStore) CreateHearing(ctx context.Context, h *types.Hearing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.ID == "" {
		h.ID = utils.NanoID()
	}
	copied := *h
	m.hearings[h.ID] = &copied
	return nil
}

func (m *memoryStore) UpdateHearing(ctx context.Context, tenantID string, h *types.Hearing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.hearings[h.ID]
	if !ok || existing.AdvocateID != tenantID {
		return types.ErrHearingNotFound
	}
	copied := *h
	m.hearings[h.ID] = &copied
	return nil
}

func (m *memoryStore) DeleteHearing(ctx context.Context, tenantID, hearingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.hearings[hearingID]
	if !ok || h.AdvocateID != tenantID {
		return types.ErrHearingNotFound
	}
	delete(m.hearings, hearingID)
	return nil
}

func (m *memoryStore) AllHearings(ctx context.Context, tenantID string) ([]*types.Hearing, error) {
	hearings, _, err := m.Hearings(ctx, tenantID, types.HearingFilter{})
	return hearings, err
}

func (m *memoryStore) DeleteAllHearings(ctx context.Context, tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, h := range m.hearings {
		if h.AdvocateID == tenantID {
			delete(m.hearings, id)
		}
	}
	return nil
}

func (m *memoryStore) CreateHearings(ctx context.Context, hearings []*types.Hearing) error {
	for _, h := range hearings {
		if err := m.CreateHearing(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

// --- Purger

func (m *memoryStore) PurgePrefix(ctx context.Context, prefix string) cleanup.Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgedPrefixes = append(m.purgedPrefixes, prefix)
	return m.purgeResults[prefix]
}

// --- Notifier

func (m *memoryStore) ClientCreated(to, clientName, advocateName string) {
	m.record("client_created:" + to)
}

func (m *memoryStore) DocumentUploaded(to, caseNumber, fileName string) {
	m.record("document_uploaded:" + to)
}

func (m *memoryStore) ClientDeleted(to, clientName string) {
	m.record("client_deleted:" + to)
}

func (m *memoryStore) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, event)
}

func purgeResult(deleted, failed int) cleanup.Result {
	res := cleanup.Result{DeletedCount: deleted}
	for i := 0; i < failed; i++ {
		res.Errors = append(res.Errors, fmt.Errorf("injected purge failure %d", i))
	}
	return res
}

// fakeObjects is an in-memory ObjectStore with an injectable save
// failure.
type fakeObjects struct {
	mu      sync.Mutex
	saved   map[string][]byte
	saveErr error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{saved: make(map[string][]byte)}
}

func (f *fakeObjects) Save(ctx context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[key] = body
	return nil
}

func (f *fakeObjects) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, ok := f.saved[key]
	if !ok {
		return nil, "", fmt.Errorf("no such object %s", key)
	}
	return io.NopCloser(bytes.NewReader(body)), "application/octet-stream", nil
}

func (f *fakeObjects) SignedReadURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func (f *fakeObjects) List(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]storage.ObjectInfo, 0)
	for key, body := range f.saved {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(body))})
		}
	}
	return out, nil
}

func (f *fakeObjects) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, key)
	return nil
}

func (f *fakeObjects) Exists(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.saved[key]
	return ok, nil
}

// testEnv wires a Service onto the in-memory fakes.
type testEnv struct {
	service *Service
	store   *memoryStore
	objects *fakeObjects
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))

	config := &types.Config{
		ServerPort:       0,
		CookieName:       "lexdesk_session",
		SessionMaxAgeSec: 3600,
		CookieHashKey:    key,
		CookieBlockKey:   key,
	}

	mem := newMemoryStore()
	objects := newFakeObjects()

	svc, err := New(config, logger, mem, mem, mem, mem, mem, objects, mem, mem)
	require.NoError(t, err)

	return &testEnv{service: svc, store: mem, objects: objects}
}

func (e *testEnv) sessionCookie(t *testing.T, p tenant.Principal) *http.Cookie {
	t.Helper()

	encoded, err := e.service.cookie.Encode(e.service.config.CookieName, p)
	require.NoError(t, err)

	return &http.Cookie{Name: e.service.config.CookieName, Value: encoded}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.service.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// seedAdvocate registers a tenant-owning advocate directly in the store
// and returns their session principal.
func (e *testEnv) seedAdvocate(t *testing.T, id string) tenant.Principal {
	t.Helper()

	u := &types.User{
		ID:    id,
		Roles: []types.Role{types.RoleAdvocate},
		Email: id + "@example.com",
		Name:  "Advocate " + id,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return tenant.FromUser(u)
}

func (e *testEnv) seedClient(t *testing.T, tenantID, id string) *types.User {
	t.Helper()

	u := &types.User{
		ID:         id,
		AdvocateID: &tenantID,
		Roles:      []types.Role{types.RoleClient},
		Email:      id + "@example.com",
		Name:       "Client " + id,
	}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) seedCase(t *testing.T, tenantID, clientID, id, number string, status types.CaseStatus) *types.Case {
	t.Helper()

	c := &types.Case{
		ID:               id,
		AdvocateID:       tenantID,
		ClientID:         clientID,
		CaseNumber:       number,
		Title:            "Case " + number,
		CaseType:         "civil",
		Status:           status,
		Priority:         types.CasePriorityMedium,
		RegistrationDate: time.Now(),
		CreatedBy:        tenantID,
	}
	require.NoError(t, e.store.CreateCase(context.Background(), c))
	return c
}
