package application

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/domain"
)

func completePurchase(t *testing.T, env *testEnv, buyer Actor) {
	t.Helper()
	ctx := context.Background()
	out, err := env.service.CreatePaymentOrder(ctx, buyer, CreateOrderInput{ProjectID: testProjectID})
	if err != nil {
		t.Fatal(err)
	}
	orderID := out.Order.OrderID
	if _, err := env.service.ProcessSuccessfulPayment(ctx, VerifyPaymentInput{
		GatewayOrderID:   orderID,
		GatewayPaymentID: "pay_setup",
		GatewaySignature: "sig:" + orderID + "|pay_setup",
	}); err != nil {
		t.Fatal(err)
	}
}

func TestCheckPurchaseStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	status, err := env.service.CheckPurchaseStatus(ctx, buyerActor(), testProjectID)
	if err != nil {
		t.Fatal(err)
	}
	if status.HasPurchased {
		t.Error("unpurchased project reported as purchased")
	}

	completePurchase(t, env, buyerActor())
	status, err = env.service.CheckPurchaseStatus(ctx, buyerActor(), testProjectID)
	if err != nil {
		t.Fatal(err)
	}
	if !status.HasPurchased || status.AccessType != domain.AccessPurchase {
		t.Errorf("after purchase: %+v", status)
	}

	status, _ = env.service.CheckPurchaseStatus(ctx, sellerActor(), testProjectID)
	if !status.HasPurchased || status.AccessType != domain.AccessOwner {
		t.Errorf("seller access: %+v", status)
	}
	status, _ = env.service.CheckPurchaseStatus(ctx, adminActor(), testProjectID)
	if !status.HasPurchased || status.AccessType != domain.AccessAdmin {
		t.Errorf("admin access: %+v", status)
	}
	status, _ = env.service.CheckPurchaseStatus(ctx, Actor{UserID: "someone", Role: "buyer"}, testFreeID)
	if !status.HasPurchased || status.AccessType != domain.AccessFree {
		t.Errorf("free project access: %+v", status)
	}
}

func TestCreateDownloadSessionRequiresPurchase(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.CreateDownloadSession(context.Background(), buyerActor(), DownloadRequestInput{ProjectID: testProjectID})
	if !errors.Is(err, domain.ErrNotPurchased) {
		t.Fatalf("session without purchase: got %v, want ErrNotPurchased", err)
	}
	if len(env.downloads.rows) != 0 {
		t.Error("no session row should be written on a failed access check")
	}
}

func TestDownloadTokenRoundTrip(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	completePurchase(t, env, buyerActor())

	session, err := env.service.CreateDownloadSession(ctx, buyerActor(), DownloadRequestInput{ProjectID: testProjectID})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("session has no token")
	}
	if !session.ExpiresAt.Equal(env.now.Add(24 * time.Hour)) {
		t.Errorf("expires_at = %v, want now+24h", session.ExpiresAt)
	}

	result := env.service.ValidateDownloadAccess(ctx, session.Token)
	if !result.IsValid {
		t.Fatal("fresh token invalid")
	}
	if result.Project.ProjectID != testProjectID {
		t.Errorf("validated project = %s", result.Project.ProjectID)
	}

	if got := env.service.ValidateDownloadAccess(ctx, "dl_bogus"); got.IsValid {
		t.Error("unknown token validated")
	}
	if got := env.service.ValidateDownloadAccess(ctx, ""); got.IsValid {
		t.Error("empty token validated")
	}
}

func TestDownloadTokenExpiry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	completePurchase(t, env, buyerActor())
	session, _ := env.service.CreateDownloadSession(ctx, buyerActor(), DownloadRequestInput{ProjectID: testProjectID})

	env.advance(24*time.Hour + time.Minute)
	if got := env.service.ValidateDownloadAccess(ctx, session.Token); got.IsValid {
		t.Error("expired token validated")
	}
	if _, _, _, err := env.service.StartDownload(ctx, session.Token); !errors.Is(err, domain.ErrSessionExpired) {
		t.Errorf("stream on expired token: got %v, want ErrSessionExpired", err)
	}
}

func TestStartDownloadCountsAttempts(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	completePurchase(t, env, buyerActor())
	session, _ := env.service.CreateDownloadSession(ctx, buyerActor(), DownloadRequestInput{ProjectID: testProjectID})

	for i := 0; i < 5; i++ {
		got, info, reader, err := env.service.StartDownload(ctx, session.Token)
		if err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
		blob, _ := io.ReadAll(reader)
		reader.Close()
		if int64(len(blob)) != info.Size {
			t.Errorf("attempt %d: read %d bytes, info says %d", i+1, len(blob), info.Size)
		}
		if got.DownloadCount != i+1 {
			t.Errorf("attempt %d: count = %d", i+1, got.DownloadCount)
		}
		if err := env.service.CompleteDownload(ctx, session.SessionID, true, int64(len(blob))); err != nil {
			t.Fatalf("complete %d: %v", i+1, err)
		}
	}

	if _, _, _, err := env.service.StartDownload(ctx, session.Token); !errors.Is(err, domain.ErrSessionExhausted) {
		t.Fatalf("sixth attempt: got %v, want ErrSessionExhausted", err)
	}
}

func TestCompleteDownloadRecordsOutcome(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	completePurchase(t, env, buyerActor())
	session, _ := env.service.CreateDownloadSession(ctx, buyerActor(), DownloadRequestInput{ProjectID: testProjectID})

	if _, _, reader, err := env.service.StartDownload(ctx, session.Token); err != nil {
		t.Fatal(err)
	} else {
		reader.Close()
	}
	if err := env.service.CompleteDownload(ctx, session.SessionID, false, 4); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	row, _ := env.downloads.GetByID(ctx, session.SessionID)
	if row.Status != domain.DownloadStatusFailed {
		t.Errorf("status = %s, want failed", row.Status)
	}
	if row.BytesTransferred != 4 {
		t.Errorf("bytes = %d, want 4", row.BytesTransferred)
	}

	events := env.publisher.published()
	found := false
	for _, e := range events {
		if e == domain.EventDownloadFailed {
			found = true
		}
	}
	if !found {
		t.Errorf("download.failed not published: %v", events)
	}
}

func TestRevokeDownloadSession(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	completePurchase(t, env, buyerActor())
	session, _ := env.service.CreateDownloadSession(ctx, buyerActor(), DownloadRequestInput{ProjectID: testProjectID})

	if err := env.service.RevokeDownloadSession(ctx, Actor{UserID: "stranger", Role: "buyer"}, session.SessionID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("stranger revoke: got %v, want ErrForbidden", err)
	}
	if err := env.service.RevokeDownloadSession(ctx, buyerActor(), session.SessionID); err != nil {
		t.Fatalf("owner revoke: %v", err)
	}
	if got := env.service.ValidateDownloadAccess(ctx, session.Token); got.IsValid {
		t.Error("revoked token still validates")
	}
	if _, _, _, err := env.service.StartDownload(ctx, session.Token); !errors.Is(err, domain.ErrSessionRevoked) {
		t.Errorf("stream on revoked token: got %v, want ErrSessionRevoked", err)
	}
}

func TestListDownloads(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	completePurchase(t, env, buyerActor())
	for i := 0; i < 3; i++ {
		if _, err := env.service.CreateDownloadSession(ctx, buyerActor(), DownloadRequestInput{ProjectID: testProjectID}); err != nil {
			t.Fatal(err)
		}
		env.advance(time.Minute)
	}

	sessions, err := env.service.ListDownloads(ctx, buyerActor(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 3 {
		t.Fatalf("len = %d, want 3", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].CreatedAt.After(sessions[i-1].CreatedAt) {
			t.Error("sessions not sorted newest first")
		}
	}

	other, err := env.service.ListDownloads(ctx, sellerActor(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("seller sees %d foreign sessions", len(other))
	}
}
