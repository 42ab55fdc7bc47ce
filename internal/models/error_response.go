package models

type ErrorKind string // Вид ошибки движка

const (
	ErrInvalidToken        ErrorKind = "InvalidToken"        // Токен не прошел проверку подписи или формата
	ErrTokenExpired        ErrorKind = "TokenExpired"        // Срок действия токена истек
	ErrTenderClosed        ErrorKind = "TenderClosed"        // Тендер не открыт или дедлайн прошел
	ErrNotInvited          ErrorKind = "NotInvited"          // Поставщик не приглашен к тендеру
	ErrDuplicateSubmission ErrorKind = "DuplicateSubmission" // Предложение от поставщика уже существует
	ErrInvalidOffer        ErrorKind = "InvalidOffer"        // Предложение не прошло валидацию
	ErrNoOffers            ErrorKind = "NoOffers"            // Нет предложений для сравнения
	ErrPreCheckFailed      ErrorKind = "PreCheckFailed"      // Комплаенс-проверка не пройдена
	ErrAlreadyAwarded      ErrorKind = "AlreadyAwarded"      // По тендеру уже выбран победитель
	ErrNotFound            ErrorKind = "NotFound"            // Сущность не найдена
	ErrBadRequest          ErrorKind = "BadRequest"          // Некорректный запрос
	ErrInternal            ErrorKind = "InternalError"       // Внутренняя ошибка
)

// ErrorResponse описывает типизированную ошибку с HTTP-кодом, видом и деталями.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"reason"`
	Details    []string  `json:"details,omitempty"`
}

// NewErrorResponse создает новую ошибку с кодом, видом и сообщением.
func NewErrorResponse(statusCode int, kind ErrorKind, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
	}
}

// WithDetails добавляет к ошибке пополевые детали.
func (e *ErrorResponse) WithDetails(details ...string) *ErrorResponse {
	e.Details = append(e.Details, details...)
	return e
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
