package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

// In-memory fakes for every outbound port. They enforce the same contracts
// the real adapters do (unique gateway order id, not-found sentinels) so the
// service under test cannot tell the difference.

type memTransactions struct {
	mu   sync.Mutex
	rows map[string]domain.Transaction
}

func newMemTransactions() *memTransactions {
	return &memTransactions{rows: map[string]domain.Transaction{}}
}

func (m *memTransactions) Create(_ context.Context, t domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.GatewayOrderID == t.GatewayOrderID {
			return domain.ErrConflict
		}
	}
	m.rows[t.TransactionID] = t
	return nil
}

func (m *memTransactions) Update(_ context.Context, t domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[t.TransactionID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[t.TransactionID] = t
	return nil
}

func (m *memTransactions) GetByID(_ context.Context, id string) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return t, nil
}

func (m *memTransactions) GetByGatewayOrderID(_ context.Context, orderID string) (domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.GatewayOrderID == orderID {
			return t, nil
		}
	}
	return domain.Transaction{}, domain.ErrNotFound
}

func (m *memTransactions) HasCompletedPurchase(_ context.Context, buyerID, projectID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.BuyerID == buyerID && t.ProjectID == projectID && t.Status == domain.TransactionStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (m *memTransactions) List(_ context.Context, query ports.TransactionListQuery) ([]domain.Transaction, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, t := range m.rows {
		if query.BuyerID != "" && t.BuyerID != query.BuyerID {
			continue
		}
		if query.ProjectID != "" && t.ProjectID != query.ProjectID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if query.Offset < len(out) {
		out = out[query.Offset:]
	} else {
		out = nil
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, total, nil
}

func (m *memTransactions) ListStalePending(_ context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for _, t := range m.rows {
		if t.Status == domain.TransactionStatusPending && t.CreatedAt.Before(olderThan) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memDownloads struct {
	mu   sync.Mutex
	rows map[string]domain.DownloadSession
}

func newMemDownloads() *memDownloads {
	return &memDownloads{rows: map[string]domain.DownloadSession{}}
}

func (m *memDownloads) Create(_ context.Context, s domain.DownloadSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.SessionID] = s
	return nil
}

func (m *memDownloads) Update(_ context.Context, s domain.DownloadSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.SessionID]; !ok {
		return domain.ErrNotFound
	}
	m.rows[s.SessionID] = s
	return nil
}

func (m *memDownloads) GetByID(_ context.Context, id string) (domain.DownloadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return domain.DownloadSession{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *memDownloads) GetByToken(_ context.Context, token string) (domain.DownloadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.Token == token {
			return s, nil
		}
	}
	return domain.DownloadSession{}, domain.ErrNotFound
}

func (m *memDownloads) ListByUser(_ context.Context, userID string, limit, offset int) ([]domain.DownloadSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DownloadSession
	for _, s := range m.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset < len(out) {
		out = out[offset:]
	} else {
		out = nil
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memProjects struct {
	rows map[string]domain.Project
}

func (m *memProjects) GetByID(_ context.Context, id string) (domain.Project, error) {
	p, ok := m.rows[id]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

type memUsers struct {
	mu   sync.Mutex
	rows map[string]domain.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]domain.User{}} }

func (m *memUsers) Create(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.rows[u.UserID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

type memWebhooks struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

func newMemWebhooks() *memWebhooks { return &memWebhooks{seen: map[string]time.Time{}} }

func (m *memWebhooks) IsDuplicate(_ context.Context, eventID string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.seen[eventID]
	return ok && expiry.After(now), nil
}

func (m *memWebhooks) MarkProcessed(_ context.Context, eventID, _, _ string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[eventID] = expiresAt
	return nil
}

type memOutbox struct {
	mu   sync.Mutex
	rows []ports.OutboxRecord
}

func (m *memOutbox) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, record)
	return nil
}

func (m *memOutbox) ListPending(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ports.OutboxRecord
	for _, r := range m.rows {
		if r.SentAt == nil {
			out = append(out, r)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memOutbox) MarkSent(_ context.Context, recordID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].RecordID == recordID {
			m.rows[i].SentAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeGateway struct {
	mu           sync.Mutex
	orderSeq     int
	refundSeq    int
	orderStatus  map[string]string
	createErr    error
	refundErr    error
	fetchErr     error
	refundCalls  []int64
	createdCalls int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{orderStatus: map[string]string{}}
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, _ map[string]string) (ports.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return ports.GatewayOrder{}, g.createErr
	}
	g.orderSeq++
	g.createdCalls++
	orderID := fmt.Sprintf("order_fake%03d", g.orderSeq)
	g.orderStatus[orderID] = "created"
	return ports.GatewayOrder{
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (ports.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return ports.GatewayOrder{}, g.fetchErr
	}
	status, ok := g.orderStatus[orderID]
	if !ok {
		return ports.GatewayOrder{}, domain.ErrNotFound
	}
	return ports.GatewayOrder{OrderID: orderID, Status: status}, nil
}

func (g *fakeGateway) CreateRefund(_ context.Context, paymentID string, amount int64, _ map[string]string) (ports.GatewayRefund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return ports.GatewayRefund{}, g.refundErr
	}
	g.refundSeq++
	g.refundCalls = append(g.refundCalls, amount)
	return ports.GatewayRefund{
		RefundID: fmt.Sprintf("rfnd_fake%03d", g.refundSeq),
		OrderID:  paymentID,
		Amount:   amount,
		Status:   "processed",
	}, nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test_fake" }

// fakeVerifier accepts signatures of the form "sig:<order>|<payment>" and
// webhook signatures "whsig:<len(body)>".
type fakeVerifier struct{}

func (fakeVerifier) VerifyPayment(orderID, paymentID, signature string) bool {
	return signature == "sig:"+orderID+"|"+paymentID
}

func (fakeVerifier) VerifyWebhook(body []byte, signature string) bool {
	return signature == fmt.Sprintf("whsig:%d", len(body))
}

type memFiles struct {
	files map[string][]byte
}

func (m *memFiles) Stat(_ context.Context, key string) (ports.FileInfo, error) {
	blob, ok := m.files[key]
	if !ok {
		return ports.FileInfo{}, domain.ErrNotFound
	}
	return ports.FileInfo{Key: key, Name: key, Size: int64(len(blob)), MimeType: "application/zip"}, nil
}

func (m *memFiles) Open(_ context.Context, key string) (io.ReadCloser, ports.FileInfo, error) {
	blob, ok := m.files[key]
	if !ok {
		return nil, ports.FileInfo{}, domain.ErrNotFound
	}
	info := ports.FileInfo{Key: key, Name: key, Size: int64(len(blob)), MimeType: "application/zip"}
	return io.NopCloser(bytes.NewReader(blob)), info, nil
}

type fakeTokens struct {
	mu  sync.Mutex
	seq int
}

func (f *fakeTokens) NewToken() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("dl_testtoken%04d", f.seq), nil
}

type fakeSigner struct{}

func (fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	return "tok:" + claims.UserID + ":" + claims.Role, nil
}

func (fakeSigner) ParseAndValidate(raw string) (ports.AuthClaims, error) {
	if !strings.HasPrefix(raw, "tok:") {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	parts := strings.Split(strings.TrimPrefix(raw, "tok:"), ":")
	if len(parts) != 2 {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	return ports.AuthClaims{UserID: parts[0], Role: parts[1]}, nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hash:" + plain, nil }

func (fakeHasher) Compare(hash, plain string) error {
	if hash != "hash:"+plain {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type capturePublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, eventType)
	return nil
}

func (p *capturePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

type testEnv struct {
	service      *Service
	transactions *memTransactions
	downloads    *memDownloads
	projects     *memProjects
	users        *memUsers
	webhooks     *memWebhooks
	outbox       *memOutbox
	gateway      *fakeGateway
	files        *memFiles
	publisher    *capturePublisher
	now          time.Time
}

func (e *testEnv) advance(d time.Duration) { e.now = e.now.Add(d) }

const (
	testBuyerID   = "11111111-1111-1111-1111-111111111111"
	testSellerID  = "22222222-2222-2222-2222-222222222222"
	testAdminID   = "33333333-3333-3333-3333-333333333333"
	testProjectID = "44444444-4444-4444-4444-444444444444"
	testFreeID    = "55555555-5555-5555-5555-555555555555"
)

func newTestEnv() *testEnv {
	env := &testEnv{
		transactions: newMemTransactions(),
		downloads:    newMemDownloads(),
		users:        newMemUsers(),
		webhooks:     newMemWebhooks(),
		outbox:       &memOutbox{},
		gateway:      newFakeGateway(),
		publisher:    &capturePublisher{},
		now:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	env.projects = &memProjects{rows: map[string]domain.Project{
		testProjectID: {
			ProjectID: testProjectID,
			SellerID:  testSellerID,
			Title:     "Go Microservice Starter",
			Price:     49900,
			Currency:  "INR",
			Status:    domain.ProjectStatusApproved,
			FileKey:   "archives/starter.zip",
			FileName:  "starter.zip",
			FileSize:  11,
			MimeType:  "application/zip",
		},
		testFreeID: {
			ProjectID: testFreeID,
			SellerID:  testSellerID,
			Title:     "Free Snippets",
			Price:     0,
			Currency:  "INR",
			Status:    domain.ProjectStatusApproved,
			FileKey:   "archives/snippets.zip",
			FileName:  "snippets.zip",
			FileSize:  11,
		},
	}}
	env.files = &memFiles{files: map[string][]byte{
		"archives/starter.zip":  []byte("zip-content"),
		"archives/snippets.zip": []byte("zip-content"),
	}}

	env.service = NewService(Dependencies{
		Config: Config{
			ServiceName:            "vibecoder-fulfillment-test",
			PlatformFeeBasisPoints: 1000,
			DownloadTTL:            24 * time.Hour,
			MaxDownloads:           5,
		},
		Transactions: env.transactions,
		Downloads:    env.downloads,
		Projects:     env.projects,
		Users:        env.users,
		Webhooks:     env.webhooks,
		Outbox:       env.outbox,
		Gateway:      env.gateway,
		Verifier:     fakeVerifier{},
		Files:        env.files,
		Tokens:       &fakeTokens{},
		Signer:       fakeSigner{},
		Hasher:       fakeHasher{},
		Publisher:    env.publisher,
	})
	env.service.nowFn = func() time.Time { return env.now }
	return env
}

func buyerActor() Actor  { return Actor{UserID: testBuyerID, Role: "buyer"} }
func sellerActor() Actor { return Actor{UserID: testSellerID, Role: "seller"} }
func adminActor() Actor  { return Actor{UserID: testAdminID, Role: "admin"} }
