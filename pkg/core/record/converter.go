package record

import (
	"fmt"
	"strconv"
	"strings"
)

// TypedValue представляет типизированное значение ячейки
type TypedValue struct {
	Type       DataType
	RawValue   string
	IsNull     bool
	IntValue   *int64
	FloatValue *float64
}

// ValidationError ошибка типизации значения
type ValidationError struct {
	Field   string
	Message string
	Value   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: '%s')",
		e.Field, e.Message, e.Value)
}

// Converter отвечает за конвертацию строковых ячеек в типизированные значения
type Converter struct{}

// NewConverter создает новый конвертер
func NewConverter() *Converter {
	return &Converter{}
}

// ParseValue парсит строковое значение согласно типу поля.
// Пустая строка для TEXT - валидное значение, для числовых типов - NULL
func (c *Converter) ParseValue(rawValue string, field Field) (*TypedValue, error) {
	tv := &TypedValue{
		Type:     field.Type,
		RawValue: rawValue,
	}

	if field.Type == TypeText {
		return tv, nil
	}

	if strings.TrimSpace(rawValue) == "" {
		tv.IsNull = true
		return tv, nil
	}

	switch field.Type {
	case TypeInteger:
		val, err := strconv.ParseInt(strings.TrimSpace(rawValue), 10, 64)
		if err != nil {
			return nil, &ValidationError{
				Field:   field.Name,
				Message: "invalid integer value",
				Value:   rawValue,
			}
		}
		tv.IntValue = &val
		return tv, nil

	case TypeReal:
		val, err := strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
		if err != nil {
			return nil, &ValidationError{
				Field:   field.Name,
				Message: "invalid float value",
				Value:   rawValue,
			}
		}
		tv.FloatValue = &val
		return tv, nil

	default:
		return nil, &ValidationError{
			Field:   field.Name,
			Message: fmt.Sprintf("unsupported type: %s", field.Type),
			Value:   rawValue,
		}
	}
}

// ParseInt парсит целочисленную ячейку (shortcut для фильтров)
func (c *Converter) ParseInt(rawValue string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(rawValue), 10, 64)
}

// ParseFloat парсит вещественную ячейку (shortcut для фильтров)
func (c *Converter) ParseFloat(rawValue string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(rawValue), 64)
}
