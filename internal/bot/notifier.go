package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/pinwager/pinwager/internal/pkg/metrics"
)

// Min interval between any two messages to the operator chat to stay under
// Telegram's per-chat rate limit (~30/min).
const sendInterval = 2 * time.Second

const queueSize = 100

// Notifier delivers outcome messages to the operator channel. Sends run on a
// background goroutine paced by a rate limiter; a full queue drops the
// message instead of blocking the pipeline.
type Notifier struct {
	api     API
	chatID  int64
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     *slog.Logger

	queue     chan string
	queueDone chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewNotifier starts the background sender
func NewNotifier(api API, chatID int64, m *metrics.Metrics, log *slog.Logger) *Notifier {
	ctx, cancel := context.WithCancel(context.Background())

	n := &Notifier{
		api:       api,
		chatID:    chatID,
		limiter:   rate.NewLimiter(rate.Every(sendInterval), 1),
		metrics:   m,
		log:       log,
		queue:     make(chan string, queueSize),
		queueDone: make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	n.wg.Add(1)
	go n.sender()

	return n
}

// Queue enqueues one message without blocking. Safe on a nil notifier.
func (n *Notifier) Queue(text string) {
	if n == nil {
		return
	}
	select {
	case <-n.ctx.Done():
	case n.queue <- text:
	default:
		n.log.Warn("notification queue full, dropping message")
		n.metrics.RecordNotifierDrop()
	}
}

func (n *Notifier) sender() {
	defer n.wg.Done()

	for {
		select {
		case <-n.ctx.Done():
			// Deliver whatever is already queued before exiting
			for {
				select {
				case text := <-n.queue:
					n.send(text)
				default:
					close(n.queueDone)
					return
				}
			}
		case text := <-n.queue:
			if err := n.limiter.Wait(n.ctx); err != nil {
				n.send(text)
				continue
			}
			n.send(text)
		}
	}
}

func (n *Notifier) send(text string) {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := n.api.Send(msg); err != nil {
		n.log.Error("failed to send notification", "error", err)
	}
}

// Stop drains the queue and waits for the sender to finish. Safe on nil.
func (n *Notifier) Stop() {
	if n == nil {
		return
	}
	n.cancel()
	<-n.queueDone
	n.wg.Wait()
}
