package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/resume-screener/internal/errs"
	"hireflow/resume-screener/internal/models"
	"hireflow/resume-screener/internal/repositories"
)

// NotifierService queues an evaluation's stored message drafts as
// pending communication-log rows and delivers them from a worker pool.
// Delivery outcome (sent/failed, provider id, error) is recorded on the
// log row; the queueing request never waits on a transport.
type NotifierService interface {
	Start(ctx context.Context)
	Stop()
	QueueEvaluation(evaluationID uuid.UUID, channels []models.Channel) ([]models.CommunicationLog, error)
}

type notifier struct {
	txRunner       repositories.TxRunner
	candidates     repositories.CandidateRepository
	evaluations    repositories.EvaluationRepository
	communications repositories.CommunicationLogRepository
	mailer         Mailer
	whatsapp       WhatsAppSender
	jobQueue       chan uuid.UUID
	concurrency    int
	wg             sync.WaitGroup
	stopChan       chan struct{}
	stopOnce       sync.Once
}

func NewNotifierService(
	txRunner repositories.TxRunner,
	candidates repositories.CandidateRepository,
	evaluations repositories.EvaluationRepository,
	communications repositories.CommunicationLogRepository,
	mailer Mailer,
	whatsapp WhatsAppSender,
	concurrency int,
) NotifierService {
	return &notifier{
		txRunner:       txRunner,
		candidates:     candidates,
		evaluations:    evaluations,
		communications: communications,
		mailer:         mailer,
		whatsapp:       whatsapp,
		jobQueue:       make(chan uuid.UUID, 100),
		concurrency:    concurrency,
		stopChan:       make(chan struct{}),
	}
}

// Start implements NotifierService.
func (n *notifier) Start(ctx context.Context) {
	log.Printf("🚀 Starting notifier with %d concurrent senders\n", n.concurrency)

	for i := 0; i < n.concurrency; i++ {
		n.wg.Add(1)
		go n.processDeliveries(ctx, i+1)
	}

	// Re-enqueue rows that were pending when the process last stopped
	n.wg.Add(1)
	go n.pollPendingDeliveries(ctx)

	log.Println("✅ Notifier started successfully")
}

// Stop implements NotifierService.
func (n *notifier) Stop() {
	n.stopOnce.Do(func() {
		log.Println("🛑 Stopping notifier...")
		close(n.stopChan)
		n.wg.Wait()
		log.Println("✅ Notifier stopped")
	})
}

// QueueEvaluation implements NotifierService.
func (n *notifier) QueueEvaluation(evaluationID uuid.UUID, channels []models.Channel) ([]models.CommunicationLog, error) {
	if len(channels) == 0 {
		return nil, errs.Validation("at least one notification channel is required")
	}
	for _, channel := range channels {
		if !channel.Valid() {
			return nil, errs.Validation("invalid notification channel %q", channel)
		}
	}

	evaluation, err := n.evaluations.FindByID(evaluationID)
	if err != nil {
		return nil, err
	}
	candidate, err := n.candidates.FindByID(evaluation.CandidateID)
	if err != nil {
		return nil, err
	}

	var logs []models.CommunicationLog
	err = n.txRunner.Transaction(func(tx *gorm.DB) error {
		repo := n.communications.WithTx(tx)
		for _, channel := range channels {
			entry, err := buildLogEntry(evaluation, candidate, channel)
			if err != nil {
				return err
			}
			if err := repo.Create(entry); err != nil {
				return errs.Persistence(err, "failed to queue %s notification", channel)
			}
			logs = append(logs, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, entry := range logs {
		n.enqueue(entry.ID)
	}
	return logs, nil
}

func buildLogEntry(
	evaluation *models.Evaluation,
	candidate *models.Candidate,
	channel models.Channel,
) (*models.CommunicationLog, error) {
	entry := &models.CommunicationLog{
		ID:           uuid.New(),
		EvaluationID: evaluation.ID,
		Channel:      channel,
		Status:       models.DeliveryPending,
		CreatedAt:    time.Now(),
	}

	switch channel {
	case models.ChannelEmail:
		if candidate.Email == nil || *candidate.Email == "" {
			return nil, errs.Validation("candidate has no email address")
		}
		body := draftField(evaluation.EmailDraft, "body")
		if body == "" {
			return nil, errs.Validation("evaluation has no email draft")
		}
		subject := draftField(evaluation.EmailDraft, "subject")
		entry.Recipient = *candidate.Email
		entry.Subject = &subject
		entry.Message = body

	case models.ChannelWhatsApp:
		if candidate.WhatsAppNumber == nil || *candidate.WhatsAppNumber == "" {
			return nil, errs.Validation("candidate has no whatsapp number")
		}
		message := draftField(evaluation.WhatsAppDraft, "message")
		if message == "" {
			message = draftField(evaluation.WhatsAppDraft, "body")
		}
		if message == "" {
			return nil, errs.Validation("evaluation has no whatsapp draft")
		}
		entry.Recipient = *candidate.WhatsAppNumber
		entry.Message = message
	}

	return entry, nil
}

func draftField(draft models.JSONMap, key string) string {
	if draft == nil {
		return ""
	}
	if value, ok := draft[key].(string); ok {
		return value
	}
	return ""
}

func (n *notifier) enqueue(logID uuid.UUID) {
	select {
	case n.jobQueue <- logID:
	case <-n.stopChan:
		log.Printf("⚠️  Notifier stopped, delivery %s stays pending for the next start\n", logID)
	}
}

func (n *notifier) processDeliveries(ctx context.Context, senderID int) {
	defer n.wg.Done()

	for {
		select {
		case <-ctx.Done():
			log.Printf("📭 Sender #%d stopped: %v\n", senderID, ctx.Err())
			return
		case <-n.stopChan:
			log.Printf("📭 Sender #%d stopped\n", senderID)
			return
		case logID := <-n.jobQueue:
			if err := n.deliver(logID); err != nil {
				log.Printf("❌ Sender #%d failed delivery %s: %v\n", senderID, logID, err)
			}
		}
	}
}

func (n *notifier) deliver(logID uuid.UUID) error {
	// Claim before loading: the row may have been enqueued twice (once
	// directly, once by the poller) and only the claim winner sends.
	claimed, err := n.communications.ClaimPending(logID)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	entry, err := n.communications.FindByID(logID)
	if err != nil {
		return err
	}

	var providerID string
	var sendErr error

	switch entry.Channel {
	case models.ChannelEmail:
		subject := ""
		if entry.Subject != nil {
			subject = *entry.Subject
		}
		providerID, sendErr = n.mailer.Send(entry.Recipient, subject, entry.Message)
	case models.ChannelWhatsApp:
		providerID, sendErr = n.whatsapp.Send(entry.Recipient, entry.Message)
	default:
		sendErr = errs.Validation("unknown channel %q", entry.Channel)
	}

	if sendErr != nil {
		if err := n.communications.MarkFailed(entry.ID, sendErr.Error()); err != nil {
			return err
		}
		return sendErr
	}
	return n.communications.MarkSent(entry.ID, providerID)
}

func (n *notifier) pollPendingDeliveries(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-n.stopChan:
			return
		case <-ticker.C:
			pending, err := n.communications.FindPending(20)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending deliveries: %v\n", err)
				continue
			}
			for _, entry := range pending {
				n.enqueue(entry.ID)
			}
		}
	}
}
