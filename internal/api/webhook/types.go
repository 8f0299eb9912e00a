package webhook

// UploadResponse ответ на загрузку файла
type UploadResponse struct {
	File     string `json:"file"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Message string `json:"message"`
}
