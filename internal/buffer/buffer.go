// Package buffer manages result buffers handed across the flat boundary.
// Every buffer is issued under a Handle and must be released exactly once.
package buffer

import "fmt"

// Buffer 고정 stride 레코드로 구성된 결과 버퍼
type Buffer struct {
	values []float64
	Stride int
}

// New stride 단위 레코드 버퍼 생성 (values 소유권은 Buffer로 이전)
// stride가 0 이하이면 1로 취급 (스칼라 시퀀스)
func New(values []float64, stride int) (*Buffer, error) {
	if stride <= 0 {
		stride = 1
	}
	if len(values)%stride != 0 {
		return nil, fmt.Errorf("buffer of %d values is not a multiple of stride %d", len(values), stride)
	}
	if values == nil {
		values = []float64{}
	}
	return &Buffer{values: values, Stride: stride}, nil
}

// Len 전체 값 개수
func (b *Buffer) Len() int {
	return len(b.values)
}

// Records 레코드 개수 (Len / Stride)
func (b *Buffer) Records() int {
	return len(b.values) / b.Stride
}

// Record i번째 레코드 (복사본)
func (b *Buffer) Record(i int) ([]float64, error) {
	if i < 0 || i >= b.Records() {
		return nil, fmt.Errorf("record %d out of range [0, %d)", i, b.Records())
	}
	out := make([]float64, b.Stride)
	copy(out, b.values[i*b.Stride:(i+1)*b.Stride])
	return out, nil
}

// Values 전체 값 (복사본)
func (b *Buffer) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}
