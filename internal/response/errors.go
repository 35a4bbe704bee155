package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// Authentication
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// Authorization
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrNotCourseOwner    ErrCode = "NOT_COURSE_OWNER"
	ErrNotEnrolled       ErrCode = "NOT_ENROLLED"

	// Validation
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// Resources
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// Courses and quizzes
	ErrCourseInactive  ErrCode = "COURSE_INACTIVE"
	ErrInvalidQuiz     ErrCode = "INVALID_QUIZ"
	ErrInvalidContent  ErrCode = "INVALID_CONTENT"
	ErrNotStudent      ErrCode = "NOT_A_STUDENT"
	ErrInvalidScore    ErrCode = "INVALID_SCORE"
	ErrInvalidSubmit   ErrCode = "INVALID_SUBMISSION"
	ErrInvalidAnswerIx ErrCode = "INVALID_ANSWER_INDEX"

	// Rate Limiting
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// Server
	ErrStorageUnavailable ErrCode = "STORAGE_UNAVAILABLE"
	ErrInternal           ErrCode = "INTERNAL_ERROR"
)

var messages = map[ErrCode]string{
	ErrInvalidCredentials: "Incorrect email or password.",
	ErrEmailTaken:         "An account with this email already exists.",
	ErrTokenRequired:      "Authentication token is required.",
	ErrTokenInvalid:       "Authentication token is invalid or expired.",

	ErrForbidden:         "You do not have permission to access this resource.",
	ErrStudentAccessOnly: "This resource is restricted to students.",
	ErrTeacherAccessOnly: "This resource is restricted to teachers.",
	ErrNotCourseOwner:    "You are not the professor of this course.",
	ErrNotEnrolled:       "You are not enrolled in this course.",

	ErrValidation:     "Validation failed. Please check your input.",
	ErrInvalidID:      "Invalid ID format.",
	ErrInvalidPayload: "Invalid request payload.",

	ErrNotFound: "Resource not found.",
	ErrConflict: "Resource already exists.",

	ErrCourseInactive:  "This course is not active.",
	ErrInvalidQuiz:     "The quiz is not well formed.",
	ErrInvalidContent:  "The course content is not valid.",
	ErrNotStudent:      "The user is not a student.",
	ErrInvalidScore:    "Score must be a whole number between 0 and 100.",
	ErrInvalidSubmit:   "The submission does not match the quiz.",
	ErrInvalidAnswerIx: "Answer index is out of range.",

	ErrRateLimitExceeded: "Too many requests. Please try again later.",

	ErrStorageUnavailable: "Grades cannot be saved right now. Please try again.",
	ErrInternal:           "An internal server error occurred.",
}

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return "An unexpected error occurred."
}
