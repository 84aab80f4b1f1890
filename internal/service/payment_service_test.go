package service

import (
	"context"
	"elearn_backend/internal/model"
	"elearn_backend/internal/testutil"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/razorpay"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollFreeCourse(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	free := testutil.CreateCourse(t, e.db, nil, 0)
	paid := testutil.CreateCourse(t, e.db, nil, 999)

	enrollment, err := e.enrollments.Enroll(student.ID, free.ID)
	require.NoError(t, err)
	assert.False(t, enrollment.Paid)
	assert.Nil(t, enrollment.PaymentID)

	_, err = e.enrollments.Enroll(student.ID, free.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	_, err = e.enrollments.Enroll(student.ID, paid.ID)
	assert.ErrorIs(t, err, util.ErrPaymentRequired)

	_, err = e.enrollments.Enroll(student.ID, 12345)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCreateOrder(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)

	checkout, err := e.payments.CreateOrder(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_1", checkout.OrderID)
	assert.Equal(t, 49900, checkout.Amount)
	assert.Equal(t, "INR", checkout.Currency)
	assert.Equal(t, "rzp_test_key", checkout.KeyID)
	assert.Equal(t, model.PaymentCreated, checkout.Transaction.Status)
	assert.LessOrEqual(t, len(e.gateway.orders[0].Receipt), 40)

	txn, err := e.payments.PaymentRepo.FindByOrderID("order_1")
	require.NoError(t, err)
	assert.Equal(t, 49900, txn.Amount)
	assert.InDelta(t, 499.0, txn.AmountInINR(), 0.001)
}

func TestCreateOrderRejections(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	free := testutil.CreateCourse(t, e.db, nil, 0)
	paid := testutil.CreateCourse(t, e.db, nil, 10)

	_, err := e.payments.CreateOrder(context.Background(), student.ID, free.ID)
	assert.ErrorIs(t, err, util.ErrCourseIsFree)

	testutil.Enroll(t, e.db, student, paid)
	_, err = e.payments.CreateOrder(context.Background(), student.ID, paid.ID)
	assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)

	other := testutil.CreateCourse(t, e.db, nil, 10)
	e.gateway.fail = true
	_, err = e.payments.CreateOrder(context.Background(), student.ID, other.ID)
	assert.ErrorIs(t, err, util.ErrGateway)
	assert.EqualValues(t, 0, testutil.Count(t, e.db, &model.PaymentTransaction{}))
}

func TestConfirmPaymentEnrollsOnce(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)
	checkout, err := e.payments.CreateOrder(context.Background(), student.ID, course.ID)
	require.NoError(t, err)

	sig := razorpay.Signature(gatewaySecret, checkout.OrderID, "pay_1")
	enrollment, err := e.payments.ConfirmPayment(context.Background(), student.ID, checkout.OrderID, "pay_1", sig)
	require.NoError(t, err)
	assert.True(t, enrollment.Paid)
	require.NotNil(t, enrollment.PaymentID)
	assert.Equal(t, checkout.Transaction.ID, *enrollment.PaymentID)

	again, err := e.payments.ConfirmPayment(context.Background(), student.ID, checkout.OrderID, "pay_1", sig)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, again.ID)
	assert.EqualValues(t, 1, testutil.Count(t, e.db, &model.Enrollment{}))

	txn, err := e.payments.PaymentRepo.FindByOrderID(checkout.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, txn.Status)
	require.NotNil(t, txn.RazorpaySignature)
	assert.Equal(t, sig, *txn.RazorpaySignature)

	// a paid order never moves back to failed
	_, err = e.payments.FailPayment(student.ID, checkout.OrderID)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestConfirmPaymentBadSignatureFailsOrder(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)
	checkout, err := e.payments.CreateOrder(context.Background(), student.ID, course.ID)
	require.NoError(t, err)

	_, err = e.payments.ConfirmPayment(context.Background(), student.ID, checkout.OrderID, "pay_1", "forged")
	assert.ErrorIs(t, err, util.ErrInvalidSignature)

	txn, err := e.payments.PaymentRepo.FindByOrderID(checkout.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, txn.Status)
	assert.EqualValues(t, 0, testutil.Count(t, e.db, &model.Enrollment{}))

	// a genuine signature cannot revive a failed order
	sig := razorpay.Signature(gatewaySecret, checkout.OrderID, "pay_1")
	_, err = e.payments.ConfirmPayment(context.Background(), student.ID, checkout.OrderID, "pay_1", sig)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestConfirmPaymentUpgradesExistingEnrollment(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)
	checkout, err := e.payments.CreateOrder(context.Background(), student.ID, course.ID)
	require.NoError(t, err)
	existing := testutil.Enroll(t, e.db, student, course)

	sig := razorpay.Signature(gatewaySecret, checkout.OrderID, "pay_9")
	enrollment, err := e.payments.ConfirmPayment(context.Background(), student.ID, checkout.OrderID, "pay_9", sig)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, enrollment.ID)
	assert.True(t, enrollment.Paid)
	assert.EqualValues(t, 1, testutil.Count(t, e.db, &model.Enrollment{}))
}

func TestConfirmPaymentOfAnotherUsersOrder(t *testing.T) {
	e := newEnv(t)
	buyer := testutil.CreateUser(t, e.db, "buyer", model.Student)
	thief := testutil.CreateUser(t, e.db, "thief", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)
	checkout, err := e.payments.CreateOrder(context.Background(), buyer.ID, course.ID)
	require.NoError(t, err)

	sig := razorpay.Signature(gatewaySecret, checkout.OrderID, "pay_1")
	_, err = e.payments.ConfirmPayment(context.Background(), thief.ID, checkout.OrderID, "pay_1", sig)
	assert.ErrorIs(t, err, util.ErrPaymentNotFound)

	_, err = e.payments.ConfirmPayment(context.Background(), buyer.ID, "order_missing", "pay_1", sig)
	assert.ErrorIs(t, err, util.ErrPaymentNotFound)
}

func TestFailPaymentIsIdempotent(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)
	checkout, err := e.payments.CreateOrder(context.Background(), student.ID, course.ID)
	require.NoError(t, err)

	txn, err := e.payments.FailPayment(student.ID, checkout.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, txn.Status)

	txn, err = e.payments.FailPayment(student.ID, checkout.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentFailed, txn.Status)
}

func TestExpireStale(t *testing.T) {
	e := newEnv(t)
	student := testutil.CreateUser(t, e.db, "stu", model.Student)
	course := testutil.CreateCourse(t, e.db, nil, 499)

	old := &model.PaymentTransaction{UserID: student.ID, CourseID: course.ID, RazorpayOrderID: "order_old", Amount: 49900, Status: model.PaymentCreated}
	old.CreatedAt = time.Now().Add(-3 * time.Hour)
	require.NoError(t, e.payments.PaymentRepo.Create(old))
	_, err := e.payments.CreateOrder(context.Background(), student.ID, course.ID)
	require.NoError(t, err)

	n, err := e.payments.ExpireStale(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	payments, err := e.payments.ListForUser(student.ID)
	require.NoError(t, err)
	statuses := map[string]model.PaymentStatus{}
	for _, p := range payments {
		statuses[p.RazorpayOrderID] = p.Status
	}
	assert.Equal(t, model.PaymentFailed, statuses["order_old"])
	assert.Equal(t, model.PaymentCreated, statuses["order_1"])
}
