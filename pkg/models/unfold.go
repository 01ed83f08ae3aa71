package models

// Point представляет точку эскиза в миллиметрах
type Point struct {
	X float64 `json:"x"` // Абсцисса, мм
	Y float64 `json:"y"` // Ордината, мм
}

// UnfoldRequest представляет запрос на расчет развертки в виде таблицы
type UnfoldRequest struct {
	Columns []string         `json:"columns,omitempty"` // Порядок столбцов (необязательно)
	Rows    []map[string]any `json:"rows"`              // Строки таблицы: столбец -> значение
}

// SegmentResult содержит результат расчета одного участка
type SegmentResult struct {
	Index     int     `json:"index"`               // Номер строки (с нуля)
	Kind      string  `json:"kind"`                // Тип участка (straight/bend)
	Direction string  `json:"direction,omitempty"` // Направление гиба
	Developed float64 `json:"developed_mm"`        // Длина по нейтральному слою, мм
	Heading   float64 `json:"heading_deg"`         // Угол направления после участка, градусы
	Label     string  `json:"label"`               // Подпись участка на эскизе
}

// Geometry содержит точки эскиза детали
type Geometry struct {
	Centerline []Point `json:"centerline"` // Нейтральная линия
	Outer      []Point `json:"outer"`      // Наружный контур
	Inner      []Point `json:"inner"`      // Внутренний контур
	Labels     []Label `json:"labels"`     // Подписи участков
}

// Label подпись участка эскиза
type Label struct {
	Index  int     `json:"index"`     // Номер участка
	Mid    Point   `json:"mid"`       // Середина участка
	Length float64 `json:"length_mm"` // Длина участка, мм
	Text   string  `json:"text"`      // Текст подписи
}

// Warning предупреждение о сомнительных входных данных
type Warning struct {
	Index   int    `json:"index"`   // Номер строки (-1 для детали целиком)
	Message string `json:"message"` // Описание
}

// UnfoldResponse представляет ответ расчета развертки
type UnfoldResponse struct {
	ID             string           `json:"id"`              // Идентификатор расчета
	Status         string           `json:"status"`          // Статус выполнения (success/error)
	Thickness      float64          `json:"thickness_mm"`    // Толщина листа, мм
	TotalDeveloped float64          `json:"total_developed"` // Полная длина развертки, мм
	TotalDisplay   string           `json:"total_display"`   // Длина развертки для отображения
	Columns        []string         `json:"columns"`         // Столбцы дополненной таблицы
	Rows           []map[string]any `json:"rows"`            // Дополненная таблица
	Segments       []SegmentResult  `json:"segments"`        // Результаты по участкам
	Geometry       Geometry         `json:"geometry"`        // Точки эскиза
	Warnings       []Warning        `json:"warnings"`        // Предупреждения
}

// ErrorResponse представляет ошибку входных данных
type ErrorResponse struct {
	Error string `json:"error"`           // Текст ошибки
	Kind  string `json:"kind,omitempty"`  // Вид ошибки
	Row   *int   `json:"row,omitempty"`   // Номер строки (с нуля)
	Field string `json:"field,omitempty"` // Имя поля
}

// HealthResponse представляет ответ проверки здоровья сервиса
type HealthResponse struct {
	Status  string `json:"status"`  // Статус сервиса (healthy/unhealthy)
	Version string `json:"version"` // Версия сервиса
}
