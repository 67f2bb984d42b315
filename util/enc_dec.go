package util

import (
	"encoding/json"
	"fmt"
)

type EncoderDecoder[T any] interface {
	Encode(value T) ([]byte, error)
	Decode(data []byte) (*T, error)
	// DecodeAll decodes a list of stored values, keeping their order.
	DecodeAll(values []string) ([]T, error)
}

type JsonEncDec[T any] struct{}

var _ EncoderDecoder[any] = new(JsonEncDec[any])

func NewJsonEncoderDecoder[T any]() *JsonEncDec[T] {
	return &JsonEncDec[T]{}
}

func (encdec *JsonEncDec[T]) Encode(value T) ([]byte, error) {
	res, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", value, err)
	}
	return res, nil
}

func (encdec *JsonEncDec[T]) Decode(data []byte) (*T, error) {
	var res T
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", res, err)
	}
	return &res, nil
}

func (encdec *JsonEncDec[T]) DecodeAll(values []string) ([]T, error) {
	out := make([]T, 0, len(values))
	for i, v := range values {
		res, err := encdec.Decode([]byte(v))
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out = append(out, *res)
	}
	return out, nil
}
