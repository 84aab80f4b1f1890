package util

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrCourseNotFound         = errors.New("course not found")
	ErrLessonNotFound         = errors.New("lesson not found")
	ErrQuizNotFound           = errors.New("quiz not found")
	ErrCertificateNotFound    = errors.New("certificate not found")
	ErrCertificateExists      = errors.New("certificate already issued for this course")
	ErrPaymentNotFound        = errors.New("payment transaction not found")
	ErrAlreadyEnrolled        = errors.New("student is already enrolled in this course")
	ErrNotEnrolled            = errors.New("student is not enrolled in this course")
	ErrPaymentRequired        = errors.New("course requires payment before enrollment")
	ErrCourseIsFree           = errors.New("course is free, no payment needed")
	ErrLessonAlreadyCompleted = errors.New("lesson already completed")
	ErrCourseAlreadyCompleted = errors.New("course already completed")
	ErrDuplicateOrder         = errors.New("payment order already recorded")
	ErrInvalidTransition      = errors.New("invalid payment status transition")
	ErrInvalidSignature       = errors.New("payment signature verification failed")
	ErrGateway                = errors.New("payment gateway error")
)
