package utils

import "encoding/json"

// Optional phân biệt trường không gửi lên (Set=false) với trường gửi null
// (Set=true, Value=nil). Dùng cho cập nhật từng phần.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Some tạo Optional đã gán giá trị.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null tạo Optional gán null tường minh.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
