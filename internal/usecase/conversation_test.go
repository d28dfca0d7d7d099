package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/domain/repository"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/storage"
)

const (
	testUser  int64 = 100
	testAdmin int64 = 900
)

type convFixture struct {
	uc       ConversationUseCase
	sessions *storage.MemorySessionRepository
	catalog  repository.CatalogRepository
	leads    *stubLeadRepo
	advisor  *stubAdvisor
}

func newConvFixture(t *testing.T, advisor *stubAdvisor, items ...entity.CatalogItem) *convFixture {
	t.Helper()
	f := &convFixture{
		sessions: storage.NewMemorySessionRepository(entity.LangRU),
		catalog:  newTestCatalog(items...),
		leads:    &stubLeadRepo{},
		advisor:  advisor,
	}
	deps := ConversationDeps{
		Sessions: f.sessions,
		Catalog:  f.catalog,
		Leads:    NewLeadService(f.leads),
		AdminIDs: []int64{testAdmin},
		ExportLeads: func(leads []entity.Lead) ([]byte, error) {
			return []byte("xlsx"), nil
		},
	}
	if advisor != nil {
		deps.Advisor = advisor
		deps.Matcher = NewMatcher(f.catalog, advisor, MatcherConfig{})
	} else {
		deps.Matcher = NewMatcher(f.catalog, nil, MatcherConfig{})
	}
	f.uc = NewConversationUseCase(deps)
	return f
}

func (f *convFixture) send(t *testing.T, ev Event) []Reply {
	t.Helper()
	if ev.Customer.UserID == 0 {
		ev.Customer = entity.Customer{UserID: testUser, ChatID: testUser, Username: "aru", FullName: "Aru S"}
	}
	replies, err := f.uc.Handle(context.Background(), ev)
	require.NoError(t, err)
	require.NotEmpty(t, replies)
	return replies
}

func (f *convFixture) text(t *testing.T, s string) []Reply {
	return f.send(t, Event{Kind: EventText, Text: s})
}

func (f *convFixture) state(t *testing.T, userID int64) *entity.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return s
}

func TestConversation_FullOrderFlow(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini())

	r := f.text(t, "хочу оформить заказ")
	assert.Equal(t, Text(entity.LangRU, "ask_city"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingCity, f.state(t, testUser).State)

	r = f.text(t, "А")
	assert.Equal(t, Text(entity.LangRU, "ask_city"), r[0].Text, "one-rune city is re-prompted")
	assert.Equal(t, entity.StateAwaitingCity, f.state(t, testUser).State)

	f.text(t, "Алматы")
	assert.Equal(t, entity.StateAwaitingPhone, f.state(t, testUser).State)

	r = f.text(t, "12345")
	assert.Equal(t, Text(entity.LangRU, "ask_phone"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingPhone, f.state(t, testUser).State)

	r = f.text(t, "8 777 123-45-67")
	assert.Equal(t, Text(entity.LangRU, "ask_details"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingDetails, f.state(t, testUser).State)

	r = f.text(t, "Luna Mini чёрная, самовывоз")
	assert.Equal(t, Text(entity.LangRU, "lead_done"), r[0].Text)
	assert.Equal(t, KeyboardSmallMenu, r[0].Keyboard)

	require.Len(t, f.leads.leads, 1)
	lead := f.leads.leads[0]
	assert.Equal(t, entity.LeadKindOrder, lead.Kind)
	assert.Equal(t, "Алматы", lead.City)
	assert.Equal(t, "+77771234567", lead.Phone)
	assert.Equal(t, "Luna Mini чёрная, самовывоз", lead.Details)
	assert.Equal(t, "aru", lead.Username)
	assert.NotEmpty(t, lead.ID)

	s := f.state(t, testUser)
	assert.Equal(t, entity.StateIdle, s.State)
	assert.Empty(t, s.City)
	assert.Empty(t, s.Phone)
}

func TestConversation_OrderCarriesSelectedItem(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini())

	f.send(t, Event{Kind: EventAction, Action: ActionPrice})
	r := f.text(t, "luna mini")
	assert.True(t, strings.HasPrefix(r[0].Text, "Нашёл вариант"))
	assert.Contains(t, r[0].Text, "32 900 ₸")
	assert.Equal(t, "luna_mini", f.state(t, testUser).SelectedItemID)

	f.send(t, Event{Kind: EventAction, Action: ActionOrder})
	f.text(t, "Астана")
	f.text(t, "+7 701 000 00 00")
	f.text(t, "бежевая")

	require.Len(t, f.leads.leads, 1)
	assert.Equal(t, "luna_mini", f.leads.leads[0].ItemID)
	assert.Empty(t, f.state(t, testUser).SelectedItemID)
}

func TestConversation_LeadStoreFailureStillConfirms(t *testing.T) {
	f := newConvFixture(t, nil)
	f.leads.appendErr = errStub

	f.send(t, Event{Kind: EventAction, Action: ActionManager})
	r := f.text(t, "перезвоните")
	assert.Equal(t, Text(entity.LangRU, "lead_done"), r[0].Text)
	assert.Equal(t, entity.StateIdle, f.state(t, testUser).State)
}

func TestConversation_ManagerFlow(t *testing.T) {
	f := newConvFixture(t, nil)

	r := f.text(t, "позовите менеджера")
	assert.Equal(t, Text(entity.LangRU, "manager"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingManagerMessage, f.state(t, testUser).State)

	f.text(t, "Есть ли скидки?")
	require.Len(t, f.leads.leads, 1)
	assert.Equal(t, entity.LeadKindManager, f.leads.leads[0].Kind)
	assert.Equal(t, "Есть ли скидки?", f.leads.leads[0].Details)
	assert.Empty(t, f.leads.leads[0].Phone)
	assert.Equal(t, entity.StateIdle, f.state(t, testUser).State)
}

func TestConversation_PriceRetryUntilFound(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini())

	f.text(t, "сколько стоит?")
	assert.Equal(t, entity.StateAwaitingModelOrPhoto, f.state(t, testUser).State)

	r := f.text(t, "рюкзак")
	assert.Equal(t, Text(entity.LangRU, "not_found"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingModelOrPhoto, f.state(t, testUser).State)

	r = f.text(t, "а есть mini?")
	assert.True(t, strings.HasPrefix(r[0].Text, "Похоже на эту модель (уверенность 75%)"), "token match is never a confident quote")
	assert.Equal(t, entity.StateIdle, f.state(t, testUser).State)
}

func TestConversation_ModelClarifyKeepsWaiting(t *testing.T) {
	advisor := &stubAdvisor{decision: entity.ModelDecision{Action: entity.ActionMatch, ItemID: "luna_mini", Confidence: 0.5}}
	f := newConvFixture(t, advisor, lunaMini())

	f.send(t, Event{Kind: EventAction, Action: ActionPrice})
	r := f.text(t, "маленькая черная на цепочке")
	assert.Equal(t, Text(entity.LangRU, "clarify_default"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingModelOrPhoto, f.state(t, testUser).State)
}

func TestConversation_PhotoMatch(t *testing.T) {
	advisor := &stubAdvisor{decision: entity.ModelDecision{Action: entity.ActionMatch, ItemID: "luna_mini", Confidence: 0.92}}
	f := newConvFixture(t, advisor, lunaMini())

	r := f.send(t, Event{Kind: EventPhoto, Photo: &PhotoInput{
		FileID: "customer-photo",
		Fetch:  func(ctx context.Context) ([]byte, error) { return []byte("img"), nil },
	}})
	assert.True(t, strings.HasPrefix(r[0].Text, "Нашёл вариант"))
	assert.Equal(t, 1, advisor.matchCalls)
}

func TestConversation_PhotoDuringOrderReprompts(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini())

	f.send(t, Event{Kind: EventAction, Action: ActionOrder})
	f.text(t, "Шымкент")
	r := f.send(t, Event{Kind: EventPhoto, Photo: &PhotoInput{FileID: "p"}})
	assert.Equal(t, Text(entity.LangRU, "ask_phone"), r[0].Text)
	assert.Equal(t, entity.StateAwaitingPhone, f.state(t, testUser).State)
}

func TestConversation_ChatUsesAdvisorWithFallback(t *testing.T) {
	advisor := &stubAdvisor{consult: "Здравствуйте! Пришлите фото сумки."}
	f := newConvFixture(t, advisor, lunaMini())

	r := f.text(t, "привет")
	assert.Equal(t, "Здравствуйте! Пришлите фото сумки.", r[0].Text)
	assert.Equal(t, 1, advisor.consultCalls)

	advisor.consultErr = errStub
	r = f.text(t, "привет")
	assert.Equal(t, Text(entity.LangRU, "unknown"), r[0].Text)

	noAI := newConvFixture(t, nil)
	r = noAI.text(t, "привет")
	assert.Equal(t, Text(entity.LangRU, "unknown"), r[0].Text)
}

func TestConversation_LanguageSwitch(t *testing.T) {
	f := newConvFixture(t, nil)

	r := f.send(t, Event{Kind: EventStart})
	require.Len(t, r, 2)
	assert.Equal(t, KeyboardLanguage, r[0].Keyboard)

	r = f.send(t, Event{Kind: EventAction, Action: ActionLangKZ})
	assert.Equal(t, "Дайын ✅ Тіл: Қазақша", r[0].Text)
	assert.Equal(t, entity.LangKZ, f.state(t, testUser).Lang)

	r = f.send(t, Event{Kind: EventMenu})
	assert.Equal(t, "Мәзір:", r[0].Text)
	assert.Equal(t, KeyboardMain, r[0].Keyboard)
}

func TestConversation_StartResetsSessionKeepsLang(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini())

	f.send(t, Event{Kind: EventAction, Action: ActionLangKZ})
	f.send(t, Event{Kind: EventAction, Action: ActionPrice})
	f.text(t, "luna mini")
	f.send(t, Event{Kind: EventAction, Action: ActionOrder})
	f.text(t, "Алматы")
	before := f.state(t, testUser)
	require.Equal(t, entity.StateAwaitingPhone, before.State)
	require.Equal(t, "luna_mini", before.SelectedItemID)

	r := f.send(t, Event{Kind: EventStart})
	require.Len(t, r, 2)
	assert.Equal(t, entity.LangKZ, r[0].Lang)

	s := f.state(t, testUser)
	assert.Equal(t, entity.StateIdle, s.State)
	assert.Empty(t, s.City)
	assert.Empty(t, s.SelectedItemID)
	assert.Equal(t, entity.LangKZ, s.Lang)

	// eski buyurtma davom etmaydi
	f.text(t, "+7 701 000 00 00")
	assert.Empty(t, f.leads.leads)
}

func TestConversation_CatalogListAndEmpty(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini(), sofiaTote())

	r := f.send(t, Event{Kind: EventAction, Action: ActionCatalog})
	assert.Contains(t, r[0].Text, "• Luna Mini — 32 900 ₸")
	assert.Contains(t, r[0].Text, "• Sofia Tote — 41 000 ₸")

	admin := entity.Customer{UserID: testAdmin}
	f.send(t, Event{Kind: EventCommand, Command: CommandClear, Customer: admin})

	r = f.text(t, "каталог")
	assert.Equal(t, Text(entity.LangRU, "catalog_empty"), r[0].Text)

	f.text(t, "цена")
	r = f.text(t, "Luna Mini")
	assert.Equal(t, Text(entity.LangRU, "catalog_empty"), r[0].Text)
}

func TestConversation_AdminAddSetPhotoClear(t *testing.T) {
	f := newConvFixture(t, nil)
	admin := entity.Customer{UserID: testAdmin}
	ctx := context.Background()

	r := f.send(t, Event{Kind: EventCommand, Command: CommandSetPhoto, Customer: admin})
	assert.Equal(t, Text(entity.LangRU, "admin_no_last_item"), r[0].Text)

	f.send(t, Event{Kind: EventCommand, Command: CommandAdd, Customer: admin})
	assert.Equal(t, entity.StateAdminAwaitingAdd, f.state(t, testAdmin).State)

	r = f.send(t, Event{Kind: EventText, Text: "Luna Mini|дорого|чёрный|desc", Customer: admin})
	assert.Equal(t, Text(entity.LangRU, "admin_add_format"), r[0].Text)
	assert.Equal(t, entity.StateAdminAwaitingAdd, f.state(t, testAdmin).State)

	r = f.send(t, Event{Kind: EventText, Text: "Luna Mini|32900|чёрный|кожа|мини|лишнее", Customer: admin})
	assert.Equal(t, Text(entity.LangRU, "admin_add_format"), r[0].Text)
	assert.Equal(t, entity.StateAdminAwaitingAdd, f.state(t, testAdmin).State)

	f.send(t, Event{Kind: EventText, Text: "Luna Mini | 32 900 | чёрный, бежевый | кожа, с цепочкой | мини, вечерняя,", Customer: admin})
	assert.Equal(t, entity.StateIdle, f.state(t, testAdmin).State)
	assert.Equal(t, "luna_mini", f.state(t, testAdmin).LastAdminItemID)

	item, err := f.catalog.Get(ctx, "luna_mini")
	require.NoError(t, err)
	assert.Equal(t, 32900, item.Price)
	assert.Equal(t, []string{"чёрный", "бежевый"}, item.Colors)
	assert.Equal(t, "кожа, с цепочкой", item.Description)
	assert.Equal(t, []string{"мини", "вечерняя"}, item.Keywords)

	f.send(t, Event{Kind: EventCommand, Command: CommandSetPhoto, Customer: admin})
	assert.Equal(t, entity.StateAdminAwaitingPhoto, f.state(t, testAdmin).State)
	r = f.send(t, Event{Kind: EventPhoto, Photo: &PhotoInput{FileID: "admin-photo"}, Customer: admin})
	assert.Equal(t, Text(entity.LangRU, "admin_photo_set"), r[0].Text)

	// customer sends the same photo: resolved through the photo index
	r = f.send(t, Event{Kind: EventPhoto, Photo: &PhotoInput{FileID: "admin-photo"}})
	assert.True(t, strings.HasPrefix(r[0].Text, "Нашёл вариант"))

	f.send(t, Event{Kind: EventCommand, Command: CommandClear, Customer: admin})
	snap, err := f.catalog.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.IsEmpty())
	assert.Empty(t, snap.PhotoIndex)
}

func TestConversation_AdminCommandsRejectedForCustomers(t *testing.T) {
	f := newConvFixture(t, nil, lunaMini())

	for _, cmd := range []string{CommandAdd, CommandSetPhoto, CommandClear, CommandLeads, CommandExport, CommandClearLeads} {
		r := f.send(t, Event{Kind: EventCommand, Command: cmd})
		assert.Equal(t, Text(entity.LangRU, "admin_only"), r[0].Text, cmd)
	}
	snap, err := f.catalog.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
}

func TestConversation_AdminLeadsAndExport(t *testing.T) {
	f := newConvFixture(t, nil)
	admin := entity.Customer{UserID: testAdmin}

	r := f.send(t, Event{Kind: EventCommand, Command: CommandExport, Customer: admin})
	assert.Equal(t, Text(entity.LangRU, "admin_leads_empty"), r[0].Text)

	f.send(t, Event{Kind: EventAction, Action: ActionManager})
	f.text(t, "вопрос")

	r = f.send(t, Event{Kind: EventCommand, Command: CommandLeads, Customer: admin})
	assert.Contains(t, r[0].Text, "вопрос")

	r = f.send(t, Event{Kind: EventCommand, Command: CommandExport, Customer: admin})
	require.NotNil(t, r[0].Document)
	assert.Equal(t, []byte("xlsx"), r[0].Document.Data)
	assert.True(t, strings.HasSuffix(r[0].Document.Name, ".xlsx"))

	f.send(t, Event{Kind: EventCommand, Command: CommandClearLeads, Customer: admin})
	assert.Empty(t, f.leads.leads)
}
