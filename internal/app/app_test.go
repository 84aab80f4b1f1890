package app

import (
	"bytes"
	"context"
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/internal/testutil"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/razorpay"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	jwtSecret     = "app-test-secret"
	gatewaySecret = "gateway-secret"
)

type stubGateway struct{ n int }

func (g *stubGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	g.n++
	return &razorpay.Order{ID: fmt.Sprintf("order_%d", g.n), Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
}

func (g *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return razorpay.Signature(gatewaySecret, orderID, paymentID) == signature
}

func (g *stubGateway) KeyID() string { return "rzp_test" }

type harness struct {
	t   *testing.T
	app *App
	db  *gorm.DB
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewDB(t)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.ExpireTime = time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Razorpay.Currency = "INR"
	cfg.RateLimit.MaxRequests = 10000
	cfg.RateLimit.WindowMinutes = 1

	return &harness{t: t, app: Assemble(cfg, db, nil, &stubGateway{}), db: db}
}

func (h *harness) token(u *model.User) string {
	tok, err := util.GenerateJWT(u, jwtSecret, time.Hour)
	require.NoError(h.t, err)
	return tok
}

type reply struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func (h *harness) do(method, path, token string, body interface{}) (int, reply) {
	h.t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, token)
}

func (h *harness) send(req *http.Request, token string) (int, reply) {
	h.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.app.Router.ServeHTTP(w, req)

	var r reply
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &r)
	}
	return w.Code, r
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	code, _ := h.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	code, r := h.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "ravi", "email": "ravi@example.com", "password1": "long-password", "password2": "long-password",
	})
	require.Equal(t, http.StatusCreated, code, r.Message)

	code, r = h.do(http.MethodPost, "/api/register", "", map[string]string{
		"username": "RAVI", "email": "bad", "password1": "12345678", "password2": "87654321",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, r.Errors, "email")
	assert.Contains(t, r.Errors, "password1")
	assert.Contains(t, r.Errors, "password2")

	code, r = h.do(http.MethodPost, "/api/login", "", map[string]string{"username": "ravi", "password": "long-password"})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	decode(t, r.Data, &login)
	require.NotEmpty(t, login.Token)

	code, _ = h.do(http.MethodGet, "/api/profile", login.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = h.do(http.MethodPost, "/api/login", "", map[string]string{"username": "ravi", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProfileUpdateMultipart(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "asha", model.Student)

	var pic bytes.Buffer
	require.NoError(t, png.Encode(&pic, image.NewRGBA(image.Rect(0, 0, 1, 1))))

	build := func(withPic bool) *http.Request {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		for k, v := range map[string]string{
			"country_code": "+44", "profession": "Designer", "bio": "hi", "phone": "0200", "address": "London",
		} {
			require.NoError(t, mw.WriteField(k, v))
		}
		if withPic {
			fw, err := mw.CreateFormFile("profile_pic", "me.png")
			require.NoError(t, err)
			_, err = fw.Write(pic.Bytes())
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPut, "/api/profile", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	code, r := h.send(build(false), h.token(user))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, r.Errors, "profile_pic")

	code, r = h.send(build(true), h.token(user))
	require.Equal(t, http.StatusOK, code, r.Message)
	assert.EqualValues(t, 1, testutil.Count(t, h.db, &model.Profile{}))
}

func TestInstructorRoutesNeedRole(t *testing.T) {
	h := newHarness(t)
	student := testutil.CreateUser(t, h.db, "stu", model.Student)

	code, _ := h.do(http.MethodPost, "/api/instructor/courses", h.token(student), map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodPost, "/api/instructor/courses", "", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFreeCourseToCertificate(t *testing.T) {
	h := newHarness(t)
	instructor := testutil.CreateUser(t, h.db, "guru", model.Instructor)
	student := testutil.CreateUser(t, h.db, "stu", model.Student)
	it, st := h.token(instructor), h.token(student)

	code, r := h.do(http.MethodPost, "/api/instructor/courses", it, map[string]interface{}{"title": "Go 101", "price_inr": 0})
	require.Equal(t, http.StatusCreated, code, r.Message)
	var course model.Course
	decode(t, r.Data, &course)

	code, r = h.do(http.MethodPost, fmt.Sprintf("/api/instructor/courses/%d/lessons", course.ID), it, map[string]string{"title": "Only lesson"})
	require.Equal(t, http.StatusCreated, code, r.Message)
	var lesson model.Lesson
	decode(t, r.Data, &lesson)

	code, _ = h.do(http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", lesson.ID), st, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = h.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), st, nil)
	require.Equal(t, http.StatusCreated, code)
	code, _ = h.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), st, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, r = h.do(http.MethodPost, fmt.Sprintf("/api/lessons/%d/complete", lesson.ID), st, nil)
	require.Equal(t, http.StatusCreated, code, r.Message)
	var outcome struct {
		CourseCompleted bool              `json:"courseCompleted"`
		Certificate     model.Certificate `json:"certificate"`
	}
	decode(t, r.Data, &outcome)
	assert.True(t, outcome.CourseCompleted)
	require.NotEmpty(t, outcome.Certificate.CertificateID)

	code, r = h.do(http.MethodGet, "/api/certificates/"+outcome.Certificate.CertificateID, "", nil)
	require.Equal(t, http.StatusOK, code)
	var verified map[string]interface{}
	decode(t, r.Data, &verified)
	assert.Equal(t, "stu", verified["holder"])
	assert.Equal(t, "Go 101", verified["course"])

	code, _ = h.do(http.MethodGet, "/api/certificates/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestQuizFlow(t *testing.T) {
	h := newHarness(t)
	instructor := testutil.CreateUser(t, h.db, "guru", model.Instructor)
	student := testutil.CreateUser(t, h.db, "stu", model.Student)
	course := testutil.CreateCourse(t, h.db, instructor, 0)
	it, st := h.token(instructor), h.token(student)

	code, r := h.do(http.MethodPost, fmt.Sprintf("/api/instructor/courses/%d/quizzes", course.ID), it, map[string]string{"title": "Check"})
	require.Equal(t, http.StatusCreated, code, r.Message)
	var quiz model.Quiz
	decode(t, r.Data, &quiz)

	code, r = h.do(http.MethodPost, fmt.Sprintf("/api/instructor/quizzes/%d/questions", quiz.ID), it, map[string]string{
		"question_text": "Capital of France?", "option_a": "Paris", "option_b": "Rome", "option_c": "Oslo", "option_d": "Bern", "correct_option": "A",
	})
	require.Equal(t, http.StatusCreated, code, r.Message)
	var question model.Question
	decode(t, r.Data, &question)

	testutil.Enroll(t, h.db, student, course)

	code, r = h.do(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.ID), st, map[string]interface{}{
		"answers": map[string]string{fmt.Sprint(question.ID): "A"},
	})
	require.Equal(t, http.StatusCreated, code, r.Message)
	var result model.QuizResult
	decode(t, r.Data, &result)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.Total)

	code, r = h.do(http.MethodGet, fmt.Sprintf("/api/quizzes/%d/results", quiz.ID), st, nil)
	require.Equal(t, http.StatusOK, code)
	var results []model.QuizResult
	decode(t, r.Data, &results)
	assert.Len(t, results, 1)
}

func TestPaidCourseCheckout(t *testing.T) {
	h := newHarness(t)
	student := testutil.CreateUser(t, h.db, "stu", model.Student)
	course := testutil.CreateCourse(t, h.db, nil, 499)
	st := h.token(student)

	code, _ := h.do(http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", course.ID), st, nil)
	assert.Equal(t, http.StatusPaymentRequired, code)

	code, r := h.do(http.MethodPost, "/api/payments/orders", st, map[string]interface{}{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, code, r.Message)
	var checkout struct {
		OrderID string `json:"orderId"`
		Amount  int    `json:"amount"`
	}
	decode(t, r.Data, &checkout)
	assert.Equal(t, 49900, checkout.Amount)

	verify := map[string]string{
		"razorpay_order_id":   checkout.OrderID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "tampered",
	}
	code, _ = h.do(http.MethodPost, "/api/payments/verify", st, verify)
	assert.Equal(t, http.StatusBadRequest, code)

	code, r = h.do(http.MethodPost, "/api/payments/orders", st, map[string]interface{}{"course_id": course.ID})
	require.Equal(t, http.StatusCreated, code, r.Message)
	decode(t, r.Data, &checkout)

	verify["razorpay_order_id"] = checkout.OrderID
	verify["razorpay_signature"] = razorpay.Signature(gatewaySecret, checkout.OrderID, "pay_1")
	code, r = h.do(http.MethodPost, "/api/payments/verify", st, verify)
	require.Equal(t, http.StatusOK, code, r.Message)
	code, _ = h.do(http.MethodPost, "/api/payments/verify", st, verify)
	assert.Equal(t, http.StatusOK, code)

	code, r = h.do(http.MethodGet, "/api/enrollments", st, nil)
	require.Equal(t, http.StatusOK, code)
	var enrollments []model.Enrollment
	decode(t, r.Data, &enrollments)
	require.Len(t, enrollments, 1)
	assert.True(t, enrollments[0].Paid)

	code, _ = h.do(http.MethodPost, "/api/payments/orders", st, map[string]interface{}{"course_id": course.ID})
	assert.Equal(t, http.StatusConflict, code)
}

func TestCourseCatalogIsPublic(t *testing.T) {
	h := newHarness(t)
	course := testutil.CreateCourse(t, h.db, nil, 0)
	testutil.CreateLesson(t, h.db, course, "Intro")

	code, r := h.do(http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Total int64 `json:"total"`
	}
	decode(t, r.Data, &page)
	assert.EqualValues(t, 1, page.Total)

	code, r = h.do(http.MethodGet, fmt.Sprintf("/api/courses/%d", course.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Lessons []model.Lesson `json:"lessons"`
	}
	decode(t, r.Data, &detail)
	assert.Len(t, detail.Lessons, 1)

	code, _ = h.do(http.MethodGet, "/api/courses/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSweeperReloadEnablesExpiry(t *testing.T) {
	h := newHarness(t)
	h.app.Config.Payment.SweepCron = "@every 1s"
	require.NoError(t, h.app.startJobs())
	defer h.app.sweeper.Stop(context.Background())
	assert.Zero(t, h.app.sweeper.Expiry())

	next := *h.app.Config
	next.Payment.ExpireAfterMinutes = 1
	h.app.applyConfig(&next)
	assert.Equal(t, time.Minute, h.app.sweeper.Expiry())

	student := testutil.CreateUser(t, h.db, "sweep", model.Student)
	course := testutil.CreateCourse(t, h.db, nil, 499)
	stale := &model.PaymentTransaction{UserID: student.ID, CourseID: course.ID, RazorpayOrderID: "order_stale", Amount: 49900, Status: model.PaymentCreated}
	stale.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, h.db.Create(stale).Error)

	assert.Eventually(t, func() bool {
		var p model.PaymentTransaction
		if err := h.db.First(&p, stale.ID).Error; err != nil {
			return false
		}
		return p.Status != model.PaymentCreated
	}, 3*time.Second, 50*time.Millisecond)
}
