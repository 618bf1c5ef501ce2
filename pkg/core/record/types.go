package record

// DataType представляет тип данных поля
type DataType string

// Поддерживаемые типы данных для scan-записей
const (
	TypeText    DataType = "TEXT"
	TypeInteger DataType = "INTEGER"
	TypeReal    DataType = "REAL"
)

// Field описывает одно поле записи
type Field struct {
	Name string
	Type DataType
}

// Schema описывает структуру набора записей
type Schema struct {
	Fields []Field
}

// FieldIndex возвращает индекс поля по имени (-1 если поле не найдено)
func (s Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Names возвращает имена всех полей в порядке схемы
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Equals проверяет структурную идентичность схем:
// одинаковое число полей, одинаковые имена и типы в том же порядке
func (s Schema) Equals(other Schema) bool {
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if s.Fields[i].Name != other.Fields[i].Name || s.Fields[i].Type != other.Fields[i].Type {
			return false
		}
	}
	return true
}

// RecordSet представляет упорядоченный набор записей с фиксированной схемой.
// Ячейки хранятся как строки; типизация выполняется по требованию через Converter
type RecordSet struct {
	Schema Schema
	Rows   [][]string
}

// Len возвращает количество строк в наборе
func (rs RecordSet) Len() int {
	return len(rs.Rows)
}

// IsEmpty проверяет, пуст ли набор
func (rs RecordSet) IsEmpty() bool {
	return len(rs.Rows) == 0
}

// RawFieldCount - число колонок сырого scan-экспорта
const RawFieldCount = 14

// RawSchema возвращает схему сырого scan-экспорта: 14 колонок
// в фиксированном порядке, имена назначаются позиционно (файл без заголовка)
func RawSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "radio", Type: TypeText},
		{Name: "mcc", Type: TypeInteger},
		{Name: "net", Type: TypeInteger},
		{Name: "area", Type: TypeInteger},
		{Name: "cell", Type: TypeInteger},
		{Name: "unit", Type: TypeInteger},
		{Name: "lon", Type: TypeReal},
		{Name: "lat", Type: TypeReal},
		{Name: "range", Type: TypeInteger},
		{Name: "samples", Type: TypeInteger},
		{Name: "changeable", Type: TypeInteger},
		{Name: "created", Type: TypeInteger},
		{Name: "updated", Type: TypeInteger},
		{Name: "averageSignal", Type: TypeInteger},
	}}
}

// ProjectedSchema возвращает схему очищенного набора: 7 колонок,
// остающихся после проекции (порядок фиксирован)
func ProjectedSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "lon", Type: TypeReal},
		{Name: "lat", Type: TypeReal},
		{Name: "mcc", Type: TypeInteger},
		{Name: "range", Type: TypeInteger},
		{Name: "net", Type: TypeInteger},
		{Name: "cell", Type: TypeInteger},
		{Name: "averageSignal", Type: TypeInteger},
	}}
}
