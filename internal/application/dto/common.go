package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto y límites.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Window recorta [offset, offset+limit) sobre una lista de tamaño n.
func (p PageRequest) Window(n int) (int, int) {
	start := p.Offset
	if start > n {
		start = n
	}
	end := start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// DataResponse cuerpo de éxito con un objeto.
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// MessageResponse cuerpo de éxito de una acción.
type MessageResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse cuerpo de éxito de un listado paginado.
type ListResponse struct {
	Success bool         `json:"success"`
	Items   interface{}  `json:"items"`
	Page    PageResponse `json:"page"`
}

// OK envuelve data en una respuesta de éxito.
func OK(data interface{}) DataResponse {
	return DataResponse{Success: true, Data: data}
}

// Done respuesta de acción con mensaje.
func Done(message string, data interface{}) MessageResponse {
	return MessageResponse{Success: true, Message: message, Data: data}
}

// Fail respuesta de error.
func Fail(code, message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message, Code: code}
}
