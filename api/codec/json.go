// Package codec регистрирует JSON-кодек для gRPC.
//
// Сообщения API описаны обычными Go-структурами, поэтому вместо protobuf
// сериализации используется content-subtype "json" (application/grpc+json).
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Name: content-subtype, под которым зарегистрирован кодек.
const Name = "json"

func init() {
	encoding.RegisterCodec(JSON{})
}

// JSON реализует encoding.Codec поверх encoding/json.
type JSON struct{}

// Marshal сериализует сообщение.
func (JSON) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec: marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal десериализует сообщение. Пустое тело оставляет значение нулевым.
func (JSON) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: unmarshal %T: %w", v, err)
	}
	return nil
}

// Name возвращает content-subtype кодека.
func (JSON) Name() string {
	return Name
}

// CallOption заставляет клиента использовать JSON-кодек для вызова.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(Name)
}
