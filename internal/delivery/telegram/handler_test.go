package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bagshop-bot/internal/domain/entity"
	"github.com/yourusername/bagshop-bot/internal/infrastructure/storage"
	"github.com/yourusername/bagshop-bot/internal/usecase"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	fileURL  string
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, f.sendErr
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetFileDirectURL(string) (string, error) {
	return f.fileURL, nil
}

func (f *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeBot) StopReceivingUpdates() {}

func (f *fakeBot) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

type stubConversation struct {
	mu      sync.Mutex
	events  []usecase.Event
	replies []usecase.Reply
	err     error
	panics  bool
}

func (s *stubConversation) Handle(_ context.Context, ev usecase.Event) ([]usecase.Reply, error) {
	if s.panics {
		panic("boom")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.replies, s.err
}

func newTestHandler(conv usecase.ConversationUseCase) (*BotHandler, *fakeBot) {
	bot := &fakeBot{}
	return NewBotHandler(bot, conv, Options{WorkerCount: 2}), bot
}

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		data   string
		action string
		ok     bool
	}{
		{"act:menu", usecase.ActionMenu, true},
		{"act:price", usecase.ActionPrice, true},
		{"act:lang", usecase.ActionLang, true},
		{"lang:ru", usecase.ActionLangRU, true},
		{"lang:kz", usecase.ActionLangKZ, true},
		{"lang:uz", "", false},
		{"act:unknown", "", false},
		{"menu", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			action, ok := parseCallbackData(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestCommandEvent(t *testing.T) {
	kind, cmd := commandEvent("start")
	assert.Equal(t, usecase.EventStart, kind)
	assert.Empty(t, cmd)

	kind, _ = commandEvent("menu")
	assert.Equal(t, usecase.EventMenu, kind)

	kind, cmd = commandEvent("SetPhoto")
	assert.Equal(t, usecase.EventCommand, kind)
	assert.Equal(t, usecase.CommandSetPhoto, cmd)

	kind, cmd = commandEvent("clearleads")
	assert.Equal(t, usecase.EventCommand, kind)
	assert.Equal(t, usecase.CommandClearLeads, cmd)

	kind, _ = commandEvent("whatever")
	assert.Equal(t, usecase.EventHelp, kind)
}

func TestExtractCommand(t *testing.T) {
	assert.Equal(t, "start", extractCommand(&tgbotapi.Message{Text: "/start"}))
	assert.Equal(t, "add", extractCommand(&tgbotapi.Message{Text: "/add@bag_bot extra"}))
	assert.Empty(t, extractCommand(&tgbotapi.Message{Text: "сколько стоит"}))
	assert.Empty(t, extractCommand(nil))
}

func TestSplitIntoChunks(t *testing.T) {
	assert.Equal(t, []string{"короткий"}, splitIntoChunks("короткий", 4096))

	long := strings.Repeat("я", 4096*2+10)
	chunks := splitIntoChunks(long, 4096)
	require.Len(t, chunks, 3)
	assert.Equal(t, 4096, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 4096, utf8.RuneCountInString(chunks[1]))
	assert.Equal(t, 10, utf8.RuneCountInString(chunks[2]))
	assert.Equal(t, long, strings.Join(chunks, ""))
}

func TestWorkerPool_SerialPerUser(t *testing.T) {
	var mu sync.Mutex
	seen := map[int64][]string{}

	wp := newWorkerPool(3, func(req *messageRequest) {
		if req.userID() == 1 {
			time.Sleep(time.Millisecond)
		}
		mu.Lock()
		seen[req.userID()] = append(seen[req.userID()], req.event.Text)
		mu.Unlock()
	}, nil)
	wp.start(context.Background())

	users := []int64{1, 2, 7}
	for i := 0; i < 10; i++ {
		for _, u := range users {
			ok := wp.submit(&messageRequest{
				ctx:   context.Background(),
				event: usecase.Event{Customer: entity.Customer{UserID: u}, Text: string(rune('a'+i)) + "0"},
			})
			require.True(t, ok)
		}
	}
	wp.shutdown()

	for _, u := range users {
		require.Len(t, seen[u], 10)
		for i, text := range seen[u] {
			assert.Equal(t, string(rune('a'+i))+"0", text, "user %d", u)
		}
	}
	assert.False(t, wp.submit(&messageRequest{event: usecase.Event{Customer: entity.Customer{UserID: 1}}}))
}

func TestWorkerPool_RecoversPanic(t *testing.T) {
	conv := &stubConversation{panics: true}
	h, bot := newTestHandler(conv)
	h.workerPool.start(context.Background())

	require.True(t, h.workerPool.submit(&messageRequest{
		ctx:    context.Background(),
		chatID: 42,
		event:  usecase.Event{Kind: usecase.EventText, Customer: entity.Customer{UserID: 5}, Text: "привет"},
	}))
	h.workerPool.shutdown()

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(42), msgs[0].ChatID)
	assert.Equal(t, usecase.Text(entity.LangRU, "error"), msgs[0].Text)
}

func TestProcess_SendsRepliesWithKeyboards(t *testing.T) {
	conv := &stubConversation{replies: []usecase.Reply{
		{Text: usecase.Text(entity.LangKZ, "menu_title"), Keyboard: usecase.KeyboardMain, Lang: entity.LangKZ},
		{Text: usecase.Text(entity.LangKZ, "menu_hint"), Lang: entity.LangKZ},
	}}
	h, bot := newTestHandler(conv)

	h.process(&messageRequest{
		ctx:    context.Background(),
		chatID: 9,
		event:  usecase.Event{Kind: usecase.EventMenu, Customer: entity.Customer{UserID: 9}},
	})

	msgs := bot.messages()
	require.Len(t, msgs, 2)
	markup, ok := msgs[0].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, usecase.Text(entity.LangKZ, "btn_price"), markup.InlineKeyboard[0][0].Text)
	require.NotNil(t, markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "act:price", *markup.InlineKeyboard[0][0].CallbackData)
	assert.Nil(t, msgs[1].ReplyMarkup)
}

func TestProcess_StoreErrorSendsApology(t *testing.T) {
	conv := &stubConversation{err: errors.New("disk full")}
	h, bot := newTestHandler(conv)

	h.process(&messageRequest{
		ctx:    context.Background(),
		chatID: 3,
		event:  usecase.Event{Kind: usecase.EventText, Customer: entity.Customer{UserID: 3}, Text: "x"},
	})

	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, usecase.Text(entity.LangRU, "error"), msgs[0].Text)
}

func TestSendReplies_Document(t *testing.T) {
	h, bot := newTestHandler(&stubConversation{})
	h.sendReplies(11, []usecase.Reply{{
		Text:     "caption",
		Document: &usecase.Document{Name: "leads.xlsx", Data: []byte("xlsx")},
	}})

	require.Len(t, bot.sent, 1)
	doc, ok := bot.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, "caption", doc.Caption)
	assert.Equal(t, tgbotapi.FileBytes{Name: "leads.xlsx", Bytes: []byte("xlsx")}, doc.File)
}

func TestMessageEvent(t *testing.T) {
	h, _ := newTestHandler(&stubConversation{})
	from := &tgbotapi.User{ID: 77, UserName: "aigerim", FirstName: "Айгерим", LastName: "Н"}
	chat := &tgbotapi.Chat{ID: 700}

	ev, ok := h.messageEvent(&tgbotapi.Message{From: from, Chat: chat, Text: "/start"})
	require.True(t, ok)
	assert.Equal(t, usecase.EventStart, ev.Kind)
	assert.Equal(t, entity.Customer{UserID: 77, ChatID: 700, Username: "aigerim", FullName: "Айгерим Н"}, ev.Customer)

	ev, ok = h.messageEvent(&tgbotapi.Message{
		From:    from,
		Chat:    chat,
		Caption: " Luna mini ",
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "large", Width: 1280},
		},
	})
	require.True(t, ok)
	assert.Equal(t, usecase.EventPhoto, ev.Kind)
	assert.Equal(t, "Luna mini", ev.Text)
	require.NotNil(t, ev.Photo)
	assert.Equal(t, "large", ev.Photo.FileID)

	ev, ok = h.messageEvent(&tgbotapi.Message{From: from, Chat: chat, Text: "  сколько стоит  "})
	require.True(t, ok)
	assert.Equal(t, usecase.EventText, ev.Kind)
	assert.Equal(t, "сколько стоит", ev.Text)

	_, ok = h.messageEvent(&tgbotapi.Message{From: from, Chat: chat, Sticker: &tgbotapi.Sticker{FileID: "s"}})
	assert.False(t, ok)
}

func TestHandleCallback_Enqueues(t *testing.T) {
	h, bot := newTestHandler(&stubConversation{})

	h.handleCallback(context.Background(), &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 4},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 40}},
		Data:    "lang:kz",
	})

	require.Len(t, bot.requests, 1)
	queue := h.workerPool.queueFor(4)
	require.Len(t, queue, 1)
	req := <-queue
	assert.Equal(t, int64(40), req.chatID)
	assert.Equal(t, usecase.EventAction, req.event.Kind)
	assert.Equal(t, usecase.ActionLangKZ, req.event.Action)
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	h, bot := newTestHandler(&stubConversation{})
	bot.fileURL = srv.URL + "/file/photo.jpg"

	data, err := h.photoInput("file-1").Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestReadLimited(t *testing.T) {
	data, err := readLimited(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), data)

	_, err = readLimited(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}

func TestLeadNotifier(t *testing.T) {
	bot := &fakeBot{}
	n := NewLeadNotifier(bot, nil, []int64{1, 2, 1, 0}, 2)
	assert.Equal(t, []int64{1, 2}, n.targets)

	lead := entity.Lead{Kind: entity.LeadKindOrder, City: "Алматы", Phone: "+77011234567"}
	require.NoError(t, n.Publish(context.Background(), lead))
	msgs := bot.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, usecase.FormatLeadNotice(lead, nil), msgs[0].Text)

	bot.sendErr = errors.New("blocked")
	assert.Error(t, n.Publish(context.Background(), lead))
}

func TestLeadNotifier_ResolvesCatalogItem(t *testing.T) {
	ctx := context.Background()
	catalog := storage.NewMemoryCatalogRepository()
	added, err := catalog.Add(ctx, entity.CatalogItem{Name: "Luna Mini", Price: 32900})
	require.NoError(t, err)

	bot := &fakeBot{}
	n := NewLeadNotifier(bot, catalog, []int64{1}, 0)

	require.NoError(t, n.Publish(ctx, entity.Lead{Kind: entity.LeadKindOrder, ItemID: added.ID}))
	msgs := bot.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "Luna Mini")
	assert.Contains(t, msgs[0].Text, "32 900 ₸")

	// mahsulot katalogdan o'chirilgan: faqat ID qoladi
	require.NoError(t, catalog.Clear(ctx))
	require.NoError(t, n.Publish(ctx, entity.Lead{Kind: entity.LeadKindOrder, ItemID: added.ID}))
	msgs = bot.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1].Text, "👜 Модель: "+added.ID+"\n")
	assert.NotContains(t, msgs[1].Text, "Luna Mini")
}
