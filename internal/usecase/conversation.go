package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yourusername/bagshop-bot/internal/domain/constants"
	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
)

// EventKind kiruvchi hodisa turi
type EventKind int

const (
	EventStart EventKind = iota
	EventMenu
	EventHelp
	EventText
	EventPhoto
	EventAction
	EventCommand
)

// Tugma harakatlari (callback data "act:<name>" yoki "lang:<code>")
const (
	ActionMenu     = "menu"
	ActionPrice    = "price"
	ActionCatalog  = "catalog"
	ActionDelivery = "delivery"
	ActionOrder    = "order"
	ActionManager  = "manager"
	ActionLang     = "lang"
	ActionLangRU   = "lang:ru"
	ActionLangKZ   = "lang:kz"
)

// Admin komandalari
const (
	CommandAdmin      = "admin"
	CommandAdd        = "add"
	CommandSetPhoto   = "setphoto"
	CommandClear      = "clear"
	CommandLeads      = "leads"
	CommandExport     = "export"
	CommandClearLeads = "clearleads"
)

// Event transportdan kelgan bitta hodisa
type Event struct {
	Kind     EventKind
	Customer entity.Customer
	Text     string
	Action   string
	Command  string
	Photo    *PhotoInput
}

// ConversationUseCase suhbat holat mashinasi
type ConversationUseCase interface {
	Handle(ctx context.Context, ev Event) ([]Reply, error)
}

// ConversationDeps holat mashinasi bog'liqliklari
type ConversationDeps struct {
	Sessions repository.SessionRepository
	Catalog  repository.CatalogRepository
	Matcher  *Matcher
	Leads    *LeadService
	// Advisor nil bo'lsa erkin savollarga "unknown" matni qaytadi
	Advisor  repository.CatalogAdvisor
	AdminIDs []int64
	// ExportLeads /export uchun .xlsx yasaydi
	ExportLeads func(leads []entity.Lead) ([]byte, error)
}

type conversationUseCase struct {
	sessions    repository.SessionRepository
	catalog     repository.CatalogRepository
	matcher     *Matcher
	leads       *LeadService
	advisor     repository.CatalogAdvisor
	admins      map[int64]bool
	exportLeads func([]entity.Lead) ([]byte, error)
	now         func() time.Time
}

// NewConversationUseCase yangi ConversationUseCase yaratish
func NewConversationUseCase(deps ConversationDeps) ConversationUseCase {
	admins := make(map[int64]bool, len(deps.AdminIDs))
	for _, id := range deps.AdminIDs {
		admins[id] = true
	}
	return &conversationUseCase{
		sessions:    deps.Sessions,
		catalog:     deps.Catalog,
		matcher:     deps.Matcher,
		leads:       deps.Leads,
		advisor:     deps.Advisor,
		admins:      admins,
		exportLeads: deps.ExportLeads,
		now:         time.Now,
	}
}

// Handle hodisani qayta ishlaydi va tartiblangan javoblarni qaytaradi.
// Foydalanuvchi xatolari qayta so'rash bilan tugaydi; error faqat sessiya omborining xatosi.
func (u *conversationUseCase) Handle(ctx context.Context, ev Event) ([]Reply, error) {
	s, err := u.sessions.Get(ctx, ev.Customer.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ev.Kind == EventStart {
		if s, err = u.restart(ctx, s); err != nil {
			return nil, err
		}
	}

	var replies []Reply
	switch ev.Kind {
	case EventStart:
		replies = u.onStart(s)
	case EventMenu:
		replies = u.onMenu(s)
	case EventHelp:
		replies = []Reply{{Text: Text(s.Lang, "start_hi"), Keyboard: KeyboardSmallMenu}}
	case EventAction:
		replies = u.onAction(ctx, s, ev.Action)
	case EventCommand:
		replies = u.onCommand(ctx, s, ev.Command)
	case EventPhoto:
		replies = u.onPhoto(ctx, s, ev)
	default:
		replies = u.onText(ctx, s, ev)
	}

	for i := range replies {
		replies[i].Lang = s.Lang
	}

	if err := u.sessions.Save(ctx, s); err != nil {
		return replies, fmt.Errorf("save session: %w", err)
	}
	return replies, nil
}

func (u *conversationUseCase) isAdmin(userID int64) bool {
	return u.admins[userID]
}

// restart /start: sessiya butunlay yangilanadi, faqat tanlangan til saqlanadi
func (u *conversationUseCase) restart(ctx context.Context, old *entity.Session) (*entity.Session, error) {
	if err := u.sessions.Reset(ctx, old.UserID); err != nil {
		return nil, fmt.Errorf("reset session: %w", err)
	}
	s, err := u.sessions.Get(ctx, old.UserID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.Lang = old.Lang
	return s, nil
}

func (u *conversationUseCase) onStart(s *entity.Session) []Reply {
	return []Reply{
		{Text: Text(s.Lang, "choose_lang"), Keyboard: KeyboardLanguage},
		{Text: Text(s.Lang, "start_hi"), Keyboard: KeyboardSmallMenu},
	}
}

func (u *conversationUseCase) onMenu(s *entity.Session) []Reply {
	s.ResetFlow()
	return []Reply{
		{Text: Text(s.Lang, "menu_title"), Keyboard: KeyboardMain},
		{Text: Text(s.Lang, "menu_hint")},
	}
}

func (u *conversationUseCase) onAction(ctx context.Context, s *entity.Session, action string) []Reply {
	switch action {
	case ActionLangRU, ActionLangKZ:
		s.Lang = entity.ParseLang(strings.TrimPrefix(action, "lang:"))
		return []Reply{{Text: Text(s.Lang, "lang_set"), Keyboard: KeyboardSmallMenu}}
	case ActionLang:
		return []Reply{{Text: Text(s.Lang, "choose_lang"), Keyboard: KeyboardLanguage}}
	case ActionMenu:
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "menu_title"), Keyboard: KeyboardMain}}
	case ActionPrice:
		return u.startPrice(s)
	case ActionCatalog:
		return u.catalogList(ctx, s)
	case ActionDelivery:
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "delivery"), Keyboard: KeyboardSmallMenu}}
	case ActionOrder:
		return u.startOrder(s)
	case ActionManager:
		return u.startManager(s)
	default:
		log.Printf("⚠️ Noma'lum tugma: %q", action)
		return []Reply{{Text: Text(s.Lang, "unknown"), Keyboard: KeyboardSmallMenu}}
	}
}

func (u *conversationUseCase) startPrice(s *entity.Session) []Reply {
	s.SetState(entity.StateAwaitingModelOrPhoto)
	return []Reply{{Text: Text(s.Lang, "ask_photo_or_model")}}
}

func (u *conversationUseCase) startOrder(s *entity.Session) []Reply {
	s.City, s.Phone = "", ""
	s.SetState(entity.StateAwaitingCity)
	return []Reply{{Text: Text(s.Lang, "ask_city")}}
}

func (u *conversationUseCase) startManager(s *entity.Session) []Reply {
	s.SetState(entity.StateAwaitingManagerMessage)
	return []Reply{{Text: Text(s.Lang, "manager")}}
}

func (u *conversationUseCase) catalogList(ctx context.Context, s *entity.Session) []Reply {
	c, err := u.catalog.Snapshot(ctx)
	if err != nil {
		log.Printf("❌ Katalogni o'qib bo'lmadi: %v", err)
		return []Reply{{Text: Text(s.Lang, "error"), Keyboard: KeyboardSmallMenu}}
	}
	return []Reply{{Text: FormatCatalogList(c.Items, s.Lang), Keyboard: KeyboardSmallMenu}}
}

func (u *conversationUseCase) onText(ctx context.Context, s *entity.Session, ev Event) []Reply {
	text := strings.TrimSpace(ev.Text)

	switch s.State {
	case entity.StateAdminAwaitingAdd:
		if !u.isAdmin(ev.Customer.UserID) {
			s.ResetFlow()
			return []Reply{{Text: Text(s.Lang, "admin_only")}}
		}
		return u.adminAdd(ctx, s, text)

	case entity.StateAdminAwaitingPhoto:
		return []Reply{{Text: Text(s.Lang, "admin_send_photo")}}

	case entity.StateAwaitingCity:
		if utf8.RuneCountInString(text) < constants.MinCityLength {
			return []Reply{{Text: Text(s.Lang, "ask_city")}}
		}
		s.City = text
		s.SetState(entity.StateAwaitingPhone)
		return []Reply{{Text: Text(s.Lang, "ask_phone")}}

	case entity.StateAwaitingPhone:
		phone, ok := entity.NormalizePhone(text)
		if !ok {
			return []Reply{{Text: Text(s.Lang, "ask_phone")}}
		}
		s.Phone = phone
		s.SetState(entity.StateAwaitingDetails)
		return []Reply{{Text: Text(s.Lang, "ask_details")}}

	case entity.StateAwaitingDetails:
		if text == "" {
			return []Reply{{Text: Text(s.Lang, "ask_details")}}
		}
		u.submitLead(ctx, s, ev.Customer, entity.LeadKindOrder, text)
		s.SelectedItemID = ""
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "lead_done"), Keyboard: KeyboardSmallMenu}}

	case entity.StateAwaitingManagerMessage:
		if text == "" {
			return []Reply{{Text: Text(s.Lang, "manager")}}
		}
		u.submitLead(ctx, s, ev.Customer, entity.LeadKindManager, text)
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "lead_done"), Keyboard: KeyboardSmallMenu}}

	case entity.StateAwaitingModelOrPhoto:
		if text == "" {
			return []Reply{{Text: Text(s.Lang, "ask_photo_or_model")}}
		}
		if DetectIntent(text) == IntentMenu {
			return u.onMenu(s)
		}
		return u.match(ctx, s, MatchQuery{Lang: s.Lang, Text: text})
	}

	switch DetectIntent(text) {
	case IntentMenu:
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "menu_title"), Keyboard: KeyboardMain}}
	case IntentPrice:
		return u.startPrice(s)
	case IntentCatalog:
		return u.catalogList(ctx, s)
	case IntentDelivery:
		return []Reply{{Text: Text(s.Lang, "delivery"), Keyboard: KeyboardSmallMenu}}
	case IntentOrder:
		return u.startOrder(s)
	case IntentManager:
		return u.startManager(s)
	}

	return u.chat(ctx, s, text)
}

// chat erkin savol: model bo'lsa qisqa maslahat, aks holda "unknown"
func (u *conversationUseCase) chat(ctx context.Context, s *entity.Session, text string) []Reply {
	fallback := []Reply{{Text: Text(s.Lang, "unknown"), Keyboard: KeyboardSmallMenu}}
	if u.advisor == nil || text == "" {
		return fallback
	}

	c, err := u.catalog.Snapshot(ctx)
	if err != nil {
		log.Printf("❌ Katalogni o'qib bo'lmadi: %v", err)
		return fallback
	}
	answer, err := u.advisor.Consult(ctx, s.Lang, c.Items, text)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			log.Printf("⚠️ Consult xato: %v", err)
		}
		return fallback
	}
	return []Reply{{Text: strings.TrimSpace(answer), Keyboard: KeyboardSmallMenu}}
}

func (u *conversationUseCase) onPhoto(ctx context.Context, s *entity.Session, ev Event) []Reply {
	if ev.Photo == nil {
		return []Reply{{Text: Text(s.Lang, "ask_photo_or_model")}}
	}

	switch s.State {
	case entity.StateAdminAwaitingPhoto:
		if !u.isAdmin(ev.Customer.UserID) {
			s.ResetFlow()
			return []Reply{{Text: Text(s.Lang, "admin_only")}}
		}
		return u.adminSetPhoto(ctx, s, ev.Photo.FileID)

	case entity.StateIdle, entity.StateAwaitingModelOrPhoto:
		return u.match(ctx, s, MatchQuery{Lang: s.Lang, Text: ev.Text, Photo: ev.Photo})

	default:
		// buyurtma oqimida foto arizaga kirmaydi, joriy savol qayta beriladi
		return []Reply{{Text: Text(s.Lang, promptKey(s.State))}}
	}
}

func promptKey(state entity.ConversationState) string {
	switch state {
	case entity.StateAwaitingCity:
		return "ask_city"
	case entity.StateAwaitingPhone:
		return "ask_phone"
	case entity.StateAwaitingDetails:
		return "ask_details"
	case entity.StateAwaitingManagerMessage:
		return "manager"
	case entity.StateAdminAwaitingAdd:
		return "admin_add_format"
	default:
		return "ask_photo_or_model"
	}
}

func (u *conversationUseCase) match(ctx context.Context, s *entity.Session, q MatchQuery) []Reply {
	res, err := u.matcher.Match(ctx, q)
	if err != nil {
		log.Printf("❌ Moslashtirish xatosi (user %d): %v", s.UserID, err)
		s.SetState(entity.StateAwaitingModelOrPhoto)
		return []Reply{{Text: Text(s.Lang, "ai_fail"), Keyboard: KeyboardSmallMenu}}
	}

	switch res.Kind {
	case entity.MatchEmptyCatalog:
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "catalog_empty"), Keyboard: KeyboardSmallMenu}}

	case entity.MatchDefinite:
		log.Printf("✅ Mos mahsulot: %s (%s, %.2f)", res.Item.ID, res.Source, res.Confidence)
		s.SelectedItemID = res.Item.ID
		s.ResetFlow()
		return []Reply{{Text: FormatMatch(res, u.matcher.Threshold(), s.Lang), Keyboard: KeyboardSmallMenu}}

	case entity.MatchClarify:
		s.SetState(entity.StateAwaitingModelOrPhoto)
		q := strings.TrimSpace(res.Question)
		if q == "" {
			q = Text(s.Lang, "clarify_default")
		}
		return []Reply{{Text: q, Keyboard: KeyboardSmallMenu}}

	default:
		s.SetState(entity.StateAwaitingModelOrPhoto)
		return []Reply{{Text: Text(s.Lang, "not_found"), Keyboard: KeyboardSmallMenu}}
	}
}

func (u *conversationUseCase) submitLead(ctx context.Context, s *entity.Session, c entity.Customer, kind entity.LeadKind, details string) {
	lead := entity.Lead{
		Kind:      kind,
		CreatedAt: u.now(),
		UserID:    c.UserID,
		Username:  c.Username,
		FullName:  c.FullName,
		Details:   details,
	}
	if kind == entity.LeadKindOrder {
		lead.City = s.City
		lead.Phone = s.Phone
		lead.ItemID = s.SelectedItemID
	}
	u.leads.Submit(ctx, lead)
}

func (u *conversationUseCase) onCommand(ctx context.Context, s *entity.Session, cmd string) []Reply {
	if !u.isAdmin(s.UserID) {
		return []Reply{{Text: Text(s.Lang, "admin_only")}}
	}

	switch cmd {
	case CommandAdmin:
		return []Reply{{Text: Text(s.Lang, "admin_help")}}

	case CommandAdd:
		s.SetState(entity.StateAdminAwaitingAdd)
		return []Reply{{Text: Text(s.Lang, "admin_add_format")}}

	case CommandSetPhoto:
		if s.LastAdminItemID == "" {
			return []Reply{{Text: Text(s.Lang, "admin_no_last_item")}}
		}
		s.SetState(entity.StateAdminAwaitingPhoto)
		return []Reply{{Text: Text(s.Lang, "admin_send_photo")}}

	case CommandClear:
		if err := u.catalog.Clear(ctx); err != nil {
			log.Printf("❌ Katalogni tozalab bo'lmadi: %v", err)
			return []Reply{{Text: Text(s.Lang, "error")}}
		}
		s.LastAdminItemID = ""
		s.ResetFlow()
		log.Printf("🗑️ Katalog tozalandi (admin %d)", s.UserID)
		return []Reply{{Text: Text(s.Lang, "admin_cleared")}}

	case CommandLeads:
		leads, err := u.leads.List(ctx)
		if err != nil {
			log.Printf("❌ Arizalarni o'qib bo'lmadi: %v", err)
			return []Reply{{Text: Text(s.Lang, "admin_leads_failed")}}
		}
		return []Reply{{Text: FormatLeadsSummary(leads, constants.RecentLeadsLimit, s.Lang)}}

	case CommandExport:
		return u.exportReplies(ctx, s)

	case CommandClearLeads:
		if err := u.leads.Clear(ctx); err != nil {
			log.Printf("❌ Arizalarni o'chirib bo'lmadi: %v", err)
			return []Reply{{Text: Text(s.Lang, "error")}}
		}
		return []Reply{{Text: Text(s.Lang, "admin_leads_clear")}}

	default:
		return []Reply{{Text: Text(s.Lang, "admin_help")}}
	}
}

func (u *conversationUseCase) exportReplies(ctx context.Context, s *entity.Session) []Reply {
	leads, err := u.leads.List(ctx)
	if err != nil {
		log.Printf("❌ Arizalarni o'qib bo'lmadi: %v", err)
		return []Reply{{Text: Text(s.Lang, "admin_leads_failed")}}
	}
	if len(leads) == 0 {
		return []Reply{{Text: Text(s.Lang, "admin_leads_empty")}}
	}
	if u.exportLeads == nil {
		return []Reply{{Text: FormatLeadsSummary(leads, 0, s.Lang)}}
	}

	data, err := u.exportLeads(leads)
	if err != nil {
		log.Printf("❌ Eksport xatosi: %v", err)
		return []Reply{{Text: Text(s.Lang, "error")}}
	}
	return []Reply{{
		Text:     fmt.Sprintf(Text(s.Lang, "admin_export_caption"), len(leads)),
		Document: &Document{Name: exportFileName(s.Lang, u.now()), Data: data},
	}}
}

// parseAdminItem "nom|narx|rang1, rang2|tavsif[|kalit1, kalit2]" satrini o'qiydi
func parseAdminItem(text string) (entity.CatalogItem, error) {
	parts := strings.Split(text, "|")
	if len(parts) < 4 || len(parts) > 5 {
		return entity.CatalogItem{}, errors.New("expected name|price|colors|description[|keywords]")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	name := parts[0]
	if name == "" {
		return entity.CatalogItem{}, errors.New("empty name")
	}

	price, err := parsePrice(parts[1])
	if err != nil {
		return entity.CatalogItem{}, err
	}

	item := entity.CatalogItem{
		Name:        name,
		Price:       price,
		Colors:      splitList(parts[2]),
		Description: parts[3],
	}
	if len(parts) == 5 {
		item.Keywords = splitList(parts[4])
	}
	return item, nil
}

// splitList vergul bilan ajratilgan ro'yxat, bo'sh elementlarsiz
func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parsePrice(raw string) (int, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\u00a0' || r == '_' || r == ',' || r == '.':
		case strings.ContainsRune(constants.CurrencySuffix+"тгTG", r):
		default:
			return 0, fmt.Errorf("invalid price %q", raw)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return strconv.Atoi(b.String())
}

func (u *conversationUseCase) adminAdd(ctx context.Context, s *entity.Session, text string) []Reply {
	item, err := parseAdminItem(text)
	if err != nil {
		return []Reply{{Text: Text(s.Lang, "admin_add_format")}}
	}

	added, err := u.catalog.Add(ctx, item)
	if err != nil {
		log.Printf("❌ Mahsulot qo'shib bo'lmadi: %v", err)
		return []Reply{{Text: Text(s.Lang, "error")}}
	}
	log.Printf("➕ Katalogga qo'shildi: %s (%s)", added.ID, added.Name)

	s.LastAdminItemID = added.ID
	s.ResetFlow()
	return []Reply{{Text: fmt.Sprintf(Text(s.Lang, "admin_added"), added.ID)}}
}

func (u *conversationUseCase) adminSetPhoto(ctx context.Context, s *entity.Session, fileID string) []Reply {
	if s.LastAdminItemID == "" {
		s.ResetFlow()
		return []Reply{{Text: Text(s.Lang, "admin_no_last_item")}}
	}

	s.ResetFlow()
	if err := u.catalog.SetPhoto(ctx, s.LastAdminItemID, fileID); err != nil {
		log.Printf("❌ Foto biriktirilmadi (%s): %v", s.LastAdminItemID, err)
		return []Reply{{Text: Text(s.Lang, "admin_photo_failed")}}
	}
	return []Reply{{Text: Text(s.Lang, "admin_photo_set")}}
}
