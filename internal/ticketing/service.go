package ticketing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/court-keeper/internal/flatfile"
	"github.com/mauv0809/court-keeper/internal/metrics"
	"github.com/mauv0809/court-keeper/internal/pubsub"
	"github.com/mauv0809/court-keeper/internal/tournament"
)

// New loads Sales.txt so ticket and sales IDs continue from the highest
// ones already issued. Seats sold in earlier sessions are not held in the
// ledger because the sales file does not record a court.
func New(opts Options, matches MatchLookup, ledger *Ledger, metrics metrics.Metrics, pubsub pubsub.PubSubClient) (*Service, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Service{
		path:     opts.Path,
		now:      now,
		matches:  matches,
		ledger:   ledger,
		metrics:  metrics,
		pubsub:   pubsub,
		queue:    NewQueue(),
		holders:  make(map[string]Spectator),
		admitted: make(map[string]bool),
	}

	records, err := flatfile.ReadRecords(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	var saleIDs, ticketIDs []string
	for i, r := range records {
		sale, err := parseSale(r)
		if err != nil {
			log.Warn("Skipping malformed sales record", "error", err, "line", i+1, "path", opts.Path)
			continue
		}
		s.sales = append(s.sales, sale)
		saleIDs = append(saleIDs, sale.ID)
		ticketIDs = append(ticketIDs, sale.TicketID)
	}
	s.nextSale = tournament.MaxIDNumber(tournament.SalesPrefix, saleIDs...) + 1
	s.nextTicket = tournament.MaxIDNumber(tournament.TicketPrefix, ticketIDs...) + 1
	log.Debug("Loaded sales", "count", len(s.sales), "nextTicket", s.nextTicket)
	return s, nil
}

// Ledger exposes the court capacity ledger the service sells against.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

// Request validates a ticket request and queues it.
func (s *Service) Request(name string, ticketType TicketType, seats int, matchID string) (Spectator, error) {
	if !flatfile.CleanField(name) {
		return Spectator{}, fmt.Errorf("%w: spectator name %q", tournament.ErrInvalidField, name)
	}
	if ticketType.Priority() == 0 {
		return Spectator{}, fmt.Errorf("%w: %q", ErrUnknownTicketType, ticketType)
	}
	if seats <= 0 {
		return Spectator{}, ErrInvalidSeats
	}
	match, err := s.matches.Match(matchID)
	if err != nil {
		return Spectator{}, err
	}

	spectator := Spectator{
		Name:    strings.TrimSpace(name),
		Type:    ticketType,
		Seats:   seats,
		MatchID: match.ID,
		CourtID: match.CourtID,
	}
	s.mu.Lock()
	s.queue.Enqueue(spectator)
	pending := s.queue.Len()
	s.mu.Unlock()

	log.Info("Queued ticket request", "name", spectator.Name, "type", ticketType, "seats", seats, "matchID", match.ID, "pending", pending)
	return spectator, nil
}

// Pending lists queued requests in service order.
func (s *Service) Pending() []Spectator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Pending()
}

// ProcessNext serves the highest priority request. A request the court
// cannot seat is recorded as Rejected; that is not an error.
func (s *Service) ProcessNext() (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spectator, ok := s.queue.Dequeue()
	if !ok {
		return Sale{}, ErrQueueEmpty
	}

	spectator.TicketID = tournament.FormatID(tournament.TicketPrefix, s.nextTicket)
	s.nextTicket++

	status := StatusPurchased
	if err := s.ledger.Reserve(spectator.CourtID, spectator.Seats); err != nil {
		log.Warn("Ticket request rejected", "error", err, "name", spectator.Name, "ticketID", spectator.TicketID)
		status = StatusRejected
	}

	sale, err := s.appendSale(spectator.Name, spectator.Seats, spectator.Type, spectator.TicketID, status)
	if err != nil {
		if status == StatusPurchased {
			if rerr := s.ledger.Release(spectator.CourtID, spectator.Seats); rerr != nil {
				log.Error("Failed to roll back reservation", "error", rerr, "ticketID", spectator.TicketID)
			}
		}
		return Sale{}, err
	}

	if status == StatusPurchased {
		s.holders[spectator.TicketID] = spectator
		s.metrics.IncTicketsSold(string(spectator.Type))
		log.Info("Ticket sold", "ticketID", spectator.TicketID, "name", spectator.Name, "seats", spectator.Seats, "courtID", spectator.CourtID)
		if err := s.pubsub.SendMessage(pubsub.EventTicketSold, sale); err != nil {
			log.Error("Failed to publish ticket sale", "error", err, "ticketID", sale.TicketID)
		}
	} else {
		s.metrics.IncTicketsRejected(string(spectator.Type))
		if err := s.pubsub.SendMessage(pubsub.EventTicketRejected, sale); err != nil {
			log.Error("Failed to publish ticket rejection", "error", err, "ticketID", sale.TicketID)
		}
	}
	return sale, nil
}

// ProcessAll drains the queue, stopping at the first persistence failure.
func (s *Service) ProcessAll() ([]Sale, error) {
	var out []Sale
	for {
		sale, err := s.ProcessNext()
		if errors.Is(err, ErrQueueEmpty) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, sale)
	}
}

// Refund cancels a purchased ticket whose holder has not entered yet.
func (s *Service) Refund(ticketID string) (Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	holder, ok := s.holders[ticketID]
	if !ok {
		return Sale{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if s.admitted[ticketID] {
		return Sale{}, fmt.Errorf("%w: %s", ErrTicketAdmitted, ticketID)
	}
	if err := s.ledger.Release(holder.CourtID, holder.Seats); err != nil {
		return Sale{}, fmt.Errorf("failed to release seats: %w", err)
	}
	sale, err := s.appendSale(holder.Name, holder.Seats, holder.Type, ticketID, StatusRefunded)
	if err != nil {
		if rerr := s.ledger.Reserve(holder.CourtID, holder.Seats); rerr != nil {
			log.Error("Failed to restore reservation", "error", rerr, "ticketID", ticketID)
		}
		return Sale{}, err
	}
	delete(s.holders, ticketID)

	log.Info("Ticket refunded", "ticketID", ticketID, "seats", holder.Seats)
	s.metrics.IncTicketsRefunded()
	if err := s.pubsub.SendMessage(pubsub.EventTicketRefunded, sale); err != nil {
		log.Error("Failed to publish refund", "error", err, "ticketID", ticketID)
	}
	return sale, nil
}

// Spectator returns the holder of a ticket sold in this session.
func (s *Service) Spectator(ticketID string) (Spectator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	holder, ok := s.holders[ticketID]
	if !ok {
		return Spectator{}, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	return holder, nil
}

// Spectators lists current ticket holders ordered by ticket ID.
func (s *Service) Spectators() []Spectator {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Spectator, 0, len(s.holders))
	for _, h := range s.holders {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out
}

// Admit marks a ticket as used at a gate. Admitted tickets cannot be refunded.
func (s *Service) Admit(ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holders[ticketID]; !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	s.admitted[ticketID] = true
	return nil
}

// Consume retires a ticket once its holder has left.
func (s *Service) Consume(ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holders[ticketID]; !ok {
		return fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	delete(s.holders, ticketID)
	delete(s.admitted, ticketID)
	return nil
}

// Sales returns every sales record in ID order.
func (s *Service) Sales() []Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sale(nil), s.sales...)
}

func (s *Service) appendSale(name string, quantity int, ticketType TicketType, ticketID string, status SaleStatus) (Sale, error) {
	sale := Sale{
		ID:          tournament.FormatID(tournament.SalesPrefix, s.nextSale),
		Name:        name,
		Quantity:    quantity,
		Type:        ticketType,
		TicketID:    ticketID,
		PurchasedAt: s.now().Truncate(time.Second),
		Status:      status,
	}

	sales := append(append([]Sale(nil), s.sales...), sale)
	sort.SliceStable(sales, func(i, j int) bool {
		a, _ := tournament.IDNumber(tournament.SalesPrefix, sales[i].ID)
		b, _ := tournament.IDNumber(tournament.SalesPrefix, sales[j].ID)
		return a < b
	})
	records := make([]flatfile.Record, 0, len(sales))
	for _, sl := range sales {
		records = append(records, flatfile.Record{
			sl.ID, sl.Name, strconv.Itoa(sl.Quantity), string(sl.Type), sl.TicketID,
			sl.PurchasedAt.Format(time.DateTime), string(sl.Status),
		})
	}
	if err := flatfile.WriteRecords(s.path, records); err != nil {
		log.Error("Failed to save sales", "error", err, "path", s.path)
		return Sale{}, fmt.Errorf("failed to save sales: %w", err)
	}
	s.sales = sales
	s.nextSale++
	return sale, nil
}

func parseSale(r flatfile.Record) (Sale, error) {
	if len(r) < 7 {
		return Sale{}, fmt.Errorf("expected 7 fields, got %d", len(r))
	}
	if _, err := tournament.IDNumber(tournament.SalesPrefix, r.Field(0)); err != nil {
		return Sale{}, err
	}
	quantity, err := strconv.Atoi(r.Field(2))
	if err != nil {
		return Sale{}, fmt.Errorf("invalid quantity %q", r.Field(2))
	}
	ticketType, err := ParseTicketType(r.Field(3))
	if err != nil {
		return Sale{}, err
	}
	at, err := time.ParseInLocation(time.DateTime, r.Field(5), time.Local)
	if err != nil {
		return Sale{}, fmt.Errorf("invalid purchase time %q", r.Field(5))
	}
	return Sale{
		ID:          r.Field(0),
		Name:        r.Field(1),
		Quantity:    quantity,
		Type:        ticketType,
		TicketID:    r.Field(4),
		PurchasedAt: at,
		Status:      SaleStatus(r.Field(6)),
	}, nil
}
