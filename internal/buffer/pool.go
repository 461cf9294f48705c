package buffer

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownHandle 발급된 적 없는 핸들
	ErrUnknownHandle = errors.New("unknown buffer handle")
	// ErrAlreadyReleased 이미 해제된 핸들 (이중 해제 또는 해제 후 접근)
	ErrAlreadyReleased = errors.New("buffer already released")
)

// Handle 풀이 발급한 버퍼 식별자. 0은 유효하지 않은 핸들
type Handle uint64

// Pool 핸들 ↔ 버퍼 매핑
// ⭐ 버퍼마다 Allocate 1회, Release 1회
// 핸들은 1부터 증가하며 재사용하지 않음. next 이하의 비어있는 핸들 = 해제됨
type Pool struct {
	mu   sync.Mutex
	next Handle
	live map[Handle]*Buffer
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{live: make(map[Handle]*Buffer)}
}

// Allocate 버퍼를 등록하고 새 핸들 발급
func (p *Pool) Allocate(buf *Buffer) Handle {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.next++
	p.live[p.next] = buf
	return p.next
}

// Get 핸들로 버퍼 조회
func (p *Pool) Get(h Handle) (*Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(h); err != nil {
		return nil, err
	}
	return p.live[h], nil
}

// Release 버퍼 해제. 같은 핸들로 두 번 호출하면 ErrAlreadyReleased
func (p *Pool) Release(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.check(h); err != nil {
		return err
	}
	delete(p.live, h)
	return nil
}

// Live 해제되지 않은 핸들 수
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// check mu를 잡은 상태에서 호출
func (p *Pool) check(h Handle) error {
	if _, ok := p.live[h]; ok {
		return nil
	}
	if h != 0 && h <= p.next {
		return fmt.Errorf("handle %d: %w", h, ErrAlreadyReleased)
	}
	return fmt.Errorf("handle %d: %w", h, ErrUnknownHandle)
}
