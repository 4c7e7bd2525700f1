package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dining-hall/internal/storage"
	"github.com/iliyamo/dining-hall/internal/utils"
)

func TestCreateIntent(t *testing.T) {
	gw := &fakeGateway{}
	h := NewPaymentHandler(&fakePaymentStore{}, gw)
	e := echo.New()
	e.POST("/create-payment-intent", h.CreateIntent)

	rec := do(e, http.MethodPost, "/create-payment-intent", `{"price":12.345}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"clientSecret":"pi_secret"`) {
		t.Fatalf("%d %s", rec.Code, rec.Body.String())
	}
	if gw.amount != 1234 {
		t.Errorf("amount = %d, want 1234", gw.amount)
	}

	for _, body := range []string{`{"price":0}`, `{"price":-5}`, `{"price":0.001}`, `{"price":"ten"}`} {
		if rec := do(e, http.MethodPost, "/create-payment-intent", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, rec.Code)
		}
	}

	gw.err = errors.New("card_declined")
	if rec := do(e, http.MethodPost, "/create-payment-intent", `{"price":10}`); rec.Code != http.StatusInternalServerError {
		t.Errorf("gateway failure: status = %d", rec.Code)
	}
}

func TestRecordAndListPayments(t *testing.T) {
	store := &fakePaymentStore{}
	h := NewPaymentHandler(store, &fakeGateway{})
	e := echo.New()
	e.POST("/payments", h.Record)
	e.GET("/payments/:email", h.ListByEmail)

	rec := do(e, http.MethodPost, "/payments",
		`{"_id":"forged","email":"a@x.com","price":20,"transactionId":"pi_1","package":"Gold","metadata":{"plan":"monthly"}}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"paymentResult":{"acknowledged":true,"insertedId":"p1"}`) {
		t.Fatalf("record: %d %s", rec.Code, rec.Body.String())
	}
	p := store.payments[0]
	if p.ID != "" || p.Date.IsZero() || p.Metadata["plan"] != "monthly" {
		t.Errorf("stored %+v", p)
	}

	rec = do(e, http.MethodGet, "/payments/a@x.com", "")
	if !strings.Contains(rec.Body.String(), `"transactionId":"pi_1"`) {
		t.Errorf("list = %s", rec.Body.String())
	}
	if rec := do(e, http.MethodGet, "/payments/b@x.com", ""); strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list = %s", rec.Body.String())
	}
}

func TestIssueToken(t *testing.T) {
	h := NewAuthHandler("s3cret", time.Hour)
	e := echo.New()
	e.POST("/jwt", h.IssueToken)

	rec := do(e, http.MethodPost, "/jwt", `{"email":"a@x.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct{ Token string }
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	claims, err := utils.ParseToken("s3cret", body.Token)
	if err != nil || utils.EmailClaim(claims) != "a@x.com" {
		t.Errorf("claims %v err %v", claims, err)
	}
}

type fakeUploader struct{ got []byte }

func (f *fakeUploader) UploadImage(_ context.Context, filename string, body io.Reader) (string, error) {
	if !strings.HasSuffix(filename, ".png") {
		return "", storage.ErrUnsupportedImage
	}
	f.got, _ = io.ReadAll(body)
	return "https://cdn.example.com/meals/x.png", nil
}

func multipartImage(t *testing.T, filename string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("image", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("png-bytes"))
	_ = w.Close()
	return &buf, w.FormDataContentType()
}

func TestUploadMealImage(t *testing.T) {
	send := func(h *UploadHandler, filename string) *httptest.ResponseRecorder {
		e := echo.New()
		e.POST("/meals/image", h.UploadMealImage)
		body, ct := multipartImage(t, filename)
		req := httptest.NewRequest(http.MethodPost, "/meals/image", body)
		req.Header.Set(echo.HeaderContentType, ct)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(&UploadHandler{}, "a.png"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured: status = %d", rec.Code)
	}
	up := &fakeUploader{}
	rec := send(&UploadHandler{Images: up}, "a.png")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"url":"https://cdn.example.com/meals/x.png"`) {
		t.Errorf("upload: %d %s", rec.Code, rec.Body.String())
	}
	if string(up.got) != "png-bytes" {
		t.Errorf("uploaded %q", up.got)
	}
	if rec := send(&UploadHandler{Images: up}, "a.exe"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad type: status = %d", rec.Code)
	}
}
