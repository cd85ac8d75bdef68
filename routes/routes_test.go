package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"serviceconnect-backend/controllers"
	"serviceconnect-backend/models"
	"serviceconnect-backend/services"
	"serviceconnect-backend/store"
	"serviceconnect-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	kv := store.NewMemory()
	logger := zap.NewNop()
	notifier := &services.LogNotifier{Logger: logger, KV: kv}
	market := services.NewMarketplace(kv,
		services.WithDelayer(services.NoDelay{}),
		services.WithLogger(logger),
		services.WithNotifier(notifier),
		services.WithTokenIssuer(func(u models.User) (string, error) {
			return utils.GenerateToken(u.ID, string(u.Type))
		}),
	)

	controllers.Setup(controllers.Deps{
		Market:    market,
		Carts:     services.NewCartRegistry(kv, logger),
		Sessions:  services.NewSessionRegistry(kv, logger),
		Reminders: services.NewReminderService(market, notifier, logger),
		KV:        kv,
	})
	return SetupRouter(RouterOptions{Logger: logger, AllowedOrigins: []string{"http://localhost:3000"}})
}

func call(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func login(t *testing.T, r http.Handler, email, userType string) string {
	t.Helper()
	w := call(t, r, http.MethodPost, "/auth/login", models.Credentials{Email: email, Password: "pw", Type: userType}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.Session](t, w).Token
}

func bookingInput(email string) models.BookingInput {
	return models.BookingInput{
		Name: "Asha Rao", Phone: "9876543210", Email: email, Address: "12 MG Road",
		Date: "2030-01-15", Time: "10:00", Description: "Leaking tap", ServiceID: 1,
	}
}

func TestCatalogRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodGet, "/api/services?category=beauty", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Service](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Salon at Home", list[0].Name)

	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/services?category=toys", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/services/abc", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, "/api/services/9999", nil, "").Code)

	w = call(t, r, http.MethodGet, "/api/services/1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Plumbing", decode[models.Service](t, w).Name)

	w = call(t, r, http.MethodGet, "/api/services/1/providers?sortBy=price", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	providers := decode[[]models.Provider](t, w)
	require.NotEmpty(t, providers)
	assert.Equal(t, int64(4), providers[0].ID)

	assert.Equal(t, http.StatusBadRequest, call(t, r, http.MethodGet, "/api/services/1/providers?minRating=high", nil, "").Code)
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, "/api/providers/5", nil, "").Code)
}

func TestAuthRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodPost, "/auth/register", models.RegisterInput{
		Name: "Ravi", Email: "ravi@example.com", Password: "pw", Type: "provider",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"password"`)

	w = call(t, r, http.MethodPost, "/auth/register", models.RegisterInput{
		Name: "X", Email: "x@example.com", Password: "pw", Type: "robot",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"type"}, decode[utils.ErrorResponse](t, w).Fields)

	w = call(t, r, http.MethodPost, "/auth/login", models.Credentials{Email: "a@b.com"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, r, "a@b.com", "customer")

	assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodGet, "/auth/me", nil, "").Code)
	w = call(t, r, http.MethodGet, "/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@b.com")

	assert.Equal(t, http.StatusOK, call(t, r, http.MethodPost, "/auth/logout", nil, token).Code)
	assert.Equal(t, http.StatusUnauthorized, call(t, r, http.MethodGet, "/auth/me", nil, token).Code,
		"a logged-out token is rejected")
}

func TestCartRoutes(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "c@b.com", "customer")

	for _, id := range []int{1, 1, 4} {
		w := call(t, r, http.MethodPost, "/api/cart/items", gin.H{"serviceId": id}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := call(t, r, http.MethodGet, "/api/cart", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[controllers.CartResponse](t, w)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, "₹7,000", cart.TotalPrice)

	w = call(t, r, http.MethodPut, "/api/cart/items/1", gin.H{"quantity": 0}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[controllers.CartResponse](t, w).TotalItems)

	assert.Equal(t, http.StatusNotFound,
		call(t, r, http.MethodPost, "/api/cart/items", gin.H{"serviceId": 9999}, token).Code)

	w = call(t, r, http.MethodPost, "/api/cart/checkout", models.CheckoutInput{
		Name: "C", Phone: "9876543210", Email: "c@b.com", Address: "1 Road", Date: "2030-01-15", Time: "11:00",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodGet, "/api/cart", nil, token)
	assert.Equal(t, 0, decode[controllers.CartResponse](t, w).TotalItems)

	provider := login(t, r, "p@b.com", "provider")
	assert.Equal(t, http.StatusForbidden, call(t, r, http.MethodGet, "/api/cart", nil, provider).Code)
}

func TestBookingRoutes(t *testing.T) {
	r := newTestRouter(t)
	customer := login(t, r, "c@b.com", "customer")
	provider := login(t, r, "p@b.com", "provider")
	admin := login(t, r, "root@b.com", "admin")

	w := call(t, r, http.MethodPost, "/api/bookings", models.BookingInput{Name: "C"}, customer)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[utils.ErrorResponse](t, w).Fields, "address")

	assert.Equal(t, http.StatusForbidden,
		call(t, r, http.MethodPost, "/api/bookings", bookingInput("p@b.com"), provider).Code)

	w = call(t, r, http.MethodPost, "/api/bookings", bookingInput("c@b.com"), customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[models.Booking](t, w)
	assert.Equal(t, models.BookingPending, booking.Status)
	path := "/api/bookings/" + jsonID(booking.ID)

	w = call(t, r, http.MethodGet, "/api/bookings", nil, provider)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Booking](t, w), 1, "unclaimed bookings are offered to providers")

	w = call(t, r, http.MethodPost, path+"/accept", nil, provider)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.BookingConfirmed, decode[models.Booking](t, w).Status)

	assert.Equal(t, http.StatusConflict, call(t, r, http.MethodPost, path+"/accept", nil, provider).Code)

	w = call(t, r, http.MethodGet, "/api/bookings", nil, customer)
	mine := decode[[]models.Booking](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, models.BookingConfirmed, mine[0].Status)

	require.Equal(t, http.StatusOK, call(t, r, http.MethodPost, path+"/complete", nil, provider).Code)
	w = call(t, r, http.MethodPost, path+"/rate", gin.H{"rating": 5, "review": "great"}, customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	other := login(t, r, "other@b.com", "customer")
	assert.Equal(t, http.StatusNotFound, call(t, r, http.MethodGet, path, nil, other).Code)
	assert.Equal(t, http.StatusOK, call(t, r, http.MethodGet, path, nil, admin).Code)

	assert.Equal(t, http.StatusForbidden, call(t, r, http.MethodGet, "/api/reports", nil, customer).Code)
	w = call(t, r, http.MethodGet, "/api/reports", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[controllers.ReportResponse](t, w)
	assert.Equal(t, 1, report.TotalBookings)
	assert.Equal(t, "₹2,500", report.TotalRevenueLabel)

	w = call(t, r, http.MethodPost, "/api/reminders/run", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sent":0}`, w.Body.String())

	w = call(t, r, http.MethodGet, "/api/reminders/logs", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.NotificationLog](t, w), 3)
}

func TestBookingEmailFollowsAccount(t *testing.T) {
	r := newTestRouter(t)
	customer := login(t, r, "Asha@b.com", "customer")

	in := bookingInput("")
	w := call(t, r, http.MethodPost, "/api/bookings", in, customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Asha@b.com", decode[models.Booking](t, w).Email)

	w = call(t, r, http.MethodPost, "/api/bookings", bookingInput("asha@b.com"), customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, "/api/bookings", bookingInput("someone@else.com"), customer)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"email"}, decode[utils.ErrorResponse](t, w).Fields)

	w = call(t, r, http.MethodGet, "/api/bookings", nil, customer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Booking](t, w), 2, "both spellings of the address are listed")
}

func TestDirectoryProviderHandlesAssignedBooking(t *testing.T) {
	r := newTestRouter(t)
	customer := login(t, r, "c@b.com", "customer")

	in := bookingInput("c@b.com")
	in.ProviderID = func(v int64) *int64 { return &v }(1)
	w := call(t, r, http.MethodPost, "/api/bookings", in, customer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	booking := decode[models.Booking](t, w)

	w = call(t, r, http.MethodPost, "/auth/register", models.RegisterInput{
		Name: "Rajesh", Email: "rajesh@example.com", Password: "pw", Type: "provider",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	provider := login(t, r, "rajesh@example.com", "provider")

	w = call(t, r, http.MethodGet, "/api/bookings", nil, provider)
	require.Equal(t, http.StatusOK, w.Code)
	visible := decode[[]models.Booking](t, w)
	require.Len(t, visible, 1)
	assert.Equal(t, booking.ID, visible[0].ID)

	w = call(t, r, http.MethodPost, "/api/bookings/"+jsonID(booking.ID)+"/accept", nil, provider)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.BookingConfirmed, decode[models.Booking](t, w).Status)

	stranger := login(t, r, "p@b.com", "provider")
	w = call(t, r, http.MethodPost, "/api/bookings/"+jsonID(booking.ID)+"/complete", nil, stranger)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProviderRoutes(t *testing.T) {
	r := newTestRouter(t)
	provider := login(t, r, "p@b.com", "provider")
	tomorrow := time.Now().AddDate(0, 0, 1).Format(utils.DateLayout)

	w := call(t, r, http.MethodPost, "/api/provider/availability", gin.H{"date": tomorrow, "time": "10:00"}, provider)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	slot := decode[models.AvailabilitySlot](t, w)

	w = call(t, r, http.MethodPost, "/api/provider/availability", gin.H{"date": tomorrow, "time": "25:00"}, provider)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, r, http.MethodGet, "/api/provider/availability?date="+tomorrow, nil, provider)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"time":"10:00"`)

	w = call(t, r, http.MethodDelete, "/api/provider/availability/"+jsonID(slot.ID), nil, provider)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(t, r, http.MethodGet, "/api/provider/dashboard", nil, provider)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "₹0", decode[controllers.DashboardOverview](t, w).EarningsLabel)

	customer := login(t, r, "c@b.com", "customer")
	assert.Equal(t, http.StatusForbidden, call(t, r, http.MethodGet, "/api/provider/dashboard", nil, customer).Code)
}

func TestContactRoute(t *testing.T) {
	r := newTestRouter(t)

	w := call(t, r, http.MethodPost, "/api/contacts", models.ContactInput{Name: "A", Email: "a@b.com"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, r, http.MethodPost, "/api/contacts", models.ContactInput{Name: "A", Email: "a@b.com", Message: "Hello"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCORS(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/services/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/services/1", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
