package ledger

import (
	"time"

	"github.com/d1may/LanguageAPP/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Sweeper 定期吊销已过期的账本记录，失败只记日志不中断。
type Sweeper struct {
	ledger   *Ledger
	interval time.Duration
	stop     chan struct{}
}

func NewSweeper(l *Ledger, interval time.Duration) *Sweeper {
	return &Sweeper{ledger: l, interval: interval, stop: make(chan struct{})}
}

// Run 阻塞运行清扫循环，直到 Stop 被调用。
func (s *Sweeper) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			n, err := s.ledger.SweepExpired()
			if err != nil {
				log.Warn().Err(err).Msg("ledger sweep")
				continue
			}
			if n > 0 {
				metrics.TokensSweptTotal.Add(float64(n))
				log.Info().Int64("revoked", n).Msg("ledger sweep")
			}
		}
	}
}

// Stop 停止清扫 goroutine，用于优雅停服。
func (s *Sweeper) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
}
