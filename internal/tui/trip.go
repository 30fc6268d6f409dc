package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/planit-ai/planit/internal/browser"
	"github.com/planit-ai/planit/internal/trip"
	"github.com/planit-ai/planit/internal/validate"
	"github.com/planit-ai/planit/pkg/domain"
)

type tripState int

const (
	tripForm tripState = iota
	tripCreating
	tripSchedule
	tripEditingMemo
)

type tripField int

const (
	fieldTitle tripField = iota
	fieldCity
	fieldArrivalDate
	fieldArrivalHour
	fieldDepartureDate
	fieldDepartureHour
	fieldBudget
	fieldThemes
	fieldPlaces
	numTripFields
)

const dateLayout = "2006-01-02"

type tripCreatedMsg struct {
	gen  int
	trip *domain.Trip
	err  error
}

type itineraryReadyMsg struct {
	gen  int
	trip *domain.Trip
	err  error
}

type placesFoundMsg struct {
	query  string
	places []domain.Place
	err    error
}

type scheduleTickMsg struct {
	gen int
}

type scheduleLoadedMsg struct {
	gen  int
	trip *domain.Trip
	err  error
}

type memoSavedMsg struct {
	err error
}

// tripModel covers the whole trip flow: the creation form, waiting for
// the generator, and the day-by-day schedule.
type tripModel struct {
	deps  Deps
	state tripState
	now   func() time.Time

	// form
	fields       [numTripFields]string
	focus        tripField
	cityIdx      int
	arrivalHour  int
	departHour   int
	themeCursor  int
	themes       map[string]bool
	places       []domain.Place
	results      []domain.Place
	resultCursor int
	searching    bool
	status       string
	statusErr    bool

	// creating / schedule
	gen       int
	cancelFn  context.CancelFunc
	started   time.Time
	title     string
	schedule  *domain.Trip
	day       int
	actCursor int
	memo      string

	width  int
	height int
}

func newTripModel(d Deps) tripModel {
	m := tripModel{
		deps:        d,
		now:         time.Now,
		arrivalHour: 10,
		departHour:  18,
		themes:      make(map[string]bool),
	}
	tomorrow := time.Now().AddDate(0, 0, 1)
	m.fields[fieldArrivalDate] = tomorrow.Format(dateLayout)
	m.fields[fieldDepartureDate] = tomorrow.AddDate(0, 0, 2).Format(dateLayout)
	return m
}

func (m tripModel) sized(msg tea.WindowSizeMsg) tripModel {
	m.width = msg.Width
	m.height = msg.Height
	return m
}

func (m tripModel) Init() tea.Cmd {
	return nil
}

// cancel stops any in-flight itinerary wait.
func (m tripModel) cancel() {
	if m.cancelFn != nil {
		m.cancelFn()
	}
}

func (m tripModel) isEditing() bool {
	return m.state == tripForm || m.state == tripEditingMemo
}

// showSchedule switches to the schedule of an already generated trip.
func (m tripModel) showSchedule(t *domain.Trip) tripModel {
	m.cancel()
	m.cancelFn = nil
	m.gen++
	m.state = tripSchedule
	m.schedule = t
	m.title = ""
	if t != nil {
		m.title = t.Title
	}
	m.day = firstDay(t)
	m.actCursor = 0
	return m
}

func firstDay(t *domain.Trip) int {
	if t == nil || len(t.Itineraries) == 0 {
		return 1
	}
	return t.Itineraries[0].Day
}

func (m tripModel) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.deps.ScheduleRefresh, func(time.Time) tea.Msg {
		return scheduleTickMsg{gen: gen}
	})
}

func (m tripModel) Update(msg tea.Msg) (tripModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.sized(msg), nil

	case tripCreatedMsg:
		if msg.gen != m.gen || m.state != tripCreating {
			return m, nil
		}
		if msg.err != nil {
			m.state = tripForm
			m.setStatus(tripErrorText(msg.err), true)
			return m, nil
		}
		if msg.trip == nil {
			m.state = tripForm
			m.setStatus("the server returned no trip", true)
			return m, nil
		}
		if msg.trip.Ready() {
			return m.ready(msg.trip)
		}
		return m.startWait(msg.trip.TripID)

	case itineraryReadyMsg:
		if msg.gen != m.gen || m.state != tripCreating {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return m, nil
			}
			m.state = tripForm
			m.setStatus(tripErrorText(msg.err), true)
			return m, nil
		}
		return m.ready(msg.trip)

	case placesFoundMsg:
		m.searching = false
		if msg.query != strings.TrimSpace(m.fields[fieldPlaces]) {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus(errorText(msg.err), true)
			return m, nil
		}
		m.results = msg.places
		m.resultCursor = 0
		if len(m.results) == 0 {
			m.setStatus("no places found", false)
		}
		return m, nil

	case scheduleTickMsg:
		if msg.gen != m.gen || m.schedule == nil {
			return m, nil
		}
		return m, m.reloadSchedule()

	case scheduleLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err == nil && msg.trip != nil && msg.trip.Ready() {
			m.schedule = msg.trip
			if m.title == "" {
				m.title = msg.trip.Title
			}
			if _, ok := m.schedule.Day(m.day); !ok {
				m.day = firstDay(m.schedule)
			}
			m.actCursor = clampCursor(m.actCursor, len(m.activities()))
		}
		return m, m.scheduleTick()

	case memoSavedMsg:
		if msg.err != nil {
			return m, showError(msg.err)
		}
		return m, tea.Batch(showToast("memo saved"), m.reloadSchedule())

	case tea.KeyMsg:
		switch m.state {
		case tripForm:
			return m.updateForm(msg)
		case tripSchedule:
			return m.updateSchedule(msg)
		case tripEditingMemo:
			return m.updateMemo(msg)
		}
	}
	return m, nil
}

func (m *tripModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func tripErrorText(err error) string {
	if errors.Is(err, trip.ErrDailyLimit) {
		return trip.ErrDailyLimit.Error()
	}
	return errorText(err)
}

func (m tripModel) ready(t *domain.Trip) (tripModel, tea.Cmd) {
	title := m.title
	m = m.showSchedule(t)
	if m.title == "" {
		m.title = title
	}
	return m, tea.Batch(showToast("itinerary ready"), m.scheduleTick())
}

// startWait begins polling for tripID. The cancel func is kept so leaving
// the view stops the poller.
func (m tripModel) startWait(tripID int64) (tripModel, tea.Cmd) {
	p := m.deps.Poller
	if p == nil {
		return m, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFn = cancel
	gen := m.gen
	return m, func() tea.Msg {
		t, err := p.WaitForItinerary(ctx, tripID)
		return itineraryReadyMsg{gen: gen, trip: t, err: err}
	}
}

func (m tripModel) reloadSchedule() tea.Cmd {
	c := m.deps.Client
	gen := m.gen
	var id int64
	if m.schedule != nil {
		id = m.schedule.TripID
	}
	return func() tea.Msg {
		var (
			t   *domain.Trip
			err error
		)
		if id != 0 {
			t, err = c.TripItineraries(context.Background(), id)
		} else {
			t, err = c.MyItineraries(context.Background())
		}
		return scheduleLoadedMsg{gen: gen, trip: t, err: err}
	}
}

func (m tripModel) updateForm(msg tea.KeyMsg) (tripModel, tea.Cmd) {
	key := msg.String()
	if key != "ctrl+s" {
		m.status = ""
	}

	switch key {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numTripFields
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numTripFields) % numTripFields
		return m, nil
	}

	switch m.focus {
	case fieldCity:
		switch key {
		case "l", "right":
			m.cityIdx = (m.cityIdx + 1) % len(domain.Destinations)
		case "h", "left":
			m.cityIdx = (m.cityIdx - 1 + len(domain.Destinations)) % len(domain.Destinations)
		}
		m.results = nil
	case fieldArrivalHour:
		m.arrivalHour = cycleHour(m.arrivalHour, key)
	case fieldDepartureHour:
		m.departHour = cycleHour(m.departHour, key)
	case fieldThemes:
		switch key {
		case "l", "right":
			m.themeCursor = (m.themeCursor + 1) % len(domain.TravelThemes)
		case "h", "left":
			m.themeCursor = (m.themeCursor - 1 + len(domain.TravelThemes)) % len(domain.TravelThemes)
		case " ", "enter":
			t := domain.TravelThemes[m.themeCursor]
			m.themes[t] = !m.themes[t]
		}
	case fieldPlaces:
		return m.updatePlaces(key)
	case fieldBudget:
		if key == "backspace" || (len(key) == 1 && key[0] >= '0' && key[0] <= '9') {
			m.fields[fieldBudget] = editRune(m.fields[fieldBudget], key)
		}
	default:
		if key == "enter" {
			m.focus = (m.focus + 1) % numTripFields
			return m, nil
		}
		m.fields[m.focus] = editRune(m.fields[m.focus], key)
	}
	return m, nil
}

func cycleHour(h int, key string) int {
	switch key {
	case "l", "right":
		return (h + 1) % 24
	case "h", "left":
		return (h + 23) % 24
	}
	return h
}

func (m tripModel) updatePlaces(key string) (tripModel, tea.Cmd) {
	switch key {
	case "enter":
		q := strings.TrimSpace(m.fields[fieldPlaces])
		if q == "" {
			return m, nil
		}
		m.searching = true
		c := m.deps.Client
		code := domain.Destinations[m.cityIdx].Code
		return m, func() tea.Msg {
			places, err := c.SearchPlaces(context.Background(), code, q)
			return placesFoundMsg{query: q, places: places, err: err}
		}
	case "ctrl+n", "pgdown":
		if m.resultCursor < len(m.results)-1 {
			m.resultCursor++
		}
	case "ctrl+p", "pgup":
		if m.resultCursor > 0 {
			m.resultCursor--
		}
	case "ctrl+a":
		if len(m.results) > 0 {
			before := len(m.places)
			m.places = trip.DedupePlaces(append(m.places, m.results[m.resultCursor]))
			if len(m.places) == before {
				m.setStatus("place already added", true)
			}
		}
	case "ctrl+x":
		if len(m.places) > 0 {
			m.places = m.places[:len(m.places)-1]
		}
	default:
		m.fields[fieldPlaces] = editRune(m.fields[fieldPlaces], key)
	}
	return m, nil
}

// buildRequest validates the inputs and turns them into a create request.
func (m tripModel) buildRequest() (domain.CreateTripRequest, error) {
	arrival, err := time.ParseInLocation(dateLayout, strings.TrimSpace(m.fields[fieldArrivalDate]), time.Local)
	if err != nil {
		return domain.CreateTripRequest{}, errors.New("arrival date must be YYYY-MM-DD")
	}
	departure, err := time.ParseInLocation(dateLayout, strings.TrimSpace(m.fields[fieldDepartureDate]), time.Local)
	if err != nil {
		return domain.CreateTripRequest{}, errors.New("departure date must be YYYY-MM-DD")
	}
	var budget int64
	if s := strings.TrimSpace(m.fields[fieldBudget]); s != "" {
		if budget, err = strconv.ParseInt(s, 10, 64); err != nil {
			return domain.CreateTripRequest{}, errors.New("budget must be a number")
		}
	}

	var themes []string
	for _, t := range domain.TravelThemes {
		if m.themes[t] {
			themes = append(themes, t)
		}
	}

	dest := domain.Destinations[m.cityIdx]
	form := validate.TripForm{
		Title:         strings.TrimSpace(m.fields[fieldTitle]),
		City:          dest.Code,
		ArrivalDate:   arrival,
		DepartureDate: departure,
		ArrivalHour:   m.arrivalHour,
		DepartureHour: m.departHour,
		Budget:        budget,
		Themes:        themes,
		WantedPlaces:  trip.PlaceIDs(m.places),
	}
	if err := m.deps.Validator.Trip(form); err != nil {
		return domain.CreateTripRequest{}, err
	}

	return domain.CreateTripRequest{
		Title:         form.Title,
		ArrivalDate:   arrival.Format(dateLayout),
		ArrivalTime:   trip.HourString(form.ArrivalHour),
		DepartureDate: departure.Format(dateLayout),
		DepartureTime: trip.HourString(form.DepartureHour),
		TravelCity:    dest.Code,
		TotalBudget:   budget,
		TravelTheme:   themes,
		WantedPlace:   form.WantedPlaces,
	}, nil
}

func (m tripModel) submit() (tripModel, tea.Cmd) {
	if !trip.CreateWindowOpen(m.now()) {
		m.setStatus("trips can be created between 14:00 and 02:00", true)
		return m, nil
	}
	req, err := m.buildRequest()
	if err != nil {
		m.setStatus(errorText(err), true)
		return m, nil
	}

	m.gen++
	m.state = tripCreating
	m.started = m.now()
	m.title = req.Title
	m.status = ""

	c := m.deps.Client
	gen := m.gen
	return m, func() tea.Msg {
		t, err := trip.Create(context.Background(), c, req)
		return tripCreatedMsg{gen: gen, trip: t, err: err}
	}
}

func (m tripModel) activities() []domain.TripActivity {
	if m.schedule == nil {
		return nil
	}
	it, ok := m.schedule.Day(m.day)
	if !ok {
		return nil
	}
	return it.Activities
}

func (m tripModel) dayIndex() int {
	if m.schedule == nil {
		return 0
	}
	for i, it := range m.schedule.Itineraries {
		if it.Day == m.day {
			return i
		}
	}
	return 0
}

func (m tripModel) updateSchedule(msg tea.KeyMsg) (tripModel, tea.Cmd) {
	acts := m.activities()
	switch msg.String() {
	case "]", "right":
		if m.schedule != nil {
			if i := m.dayIndex(); i < len(m.schedule.Itineraries)-1 {
				m.day = m.schedule.Itineraries[i+1].Day
				m.actCursor = 0
			}
		}
	case "[", "left":
		if m.schedule != nil {
			if i := m.dayIndex(); i > 0 {
				m.day = m.schedule.Itineraries[i-1].Day
				m.actCursor = 0
			}
		}
	case "j", "down":
		if m.actCursor < len(acts)-1 {
			m.actCursor++
		}
	case "k", "up":
		if m.actCursor > 0 {
			m.actCursor--
		}
	case "c":
		text := trip.Format(m.title, m.schedule)
		return m, func() tea.Msg {
			if err := clipboard.WriteAll(text); err != nil {
				return toastMsg{text: "clipboard unavailable", isErr: true}
			}
			return toastMsg{text: "itinerary copied"}
		}
	case "o":
		if len(acts) > 0 {
			if err := browser.Open(acts[m.actCursor].GoogleMapURL); err != nil {
				return m, showToast("no map link for this stop")
			}
		}
	case "m":
		if len(acts) > 0 {
			m.state = tripEditingMemo
			m.memo = acts[m.actCursor].Memo
		}
	case "r":
		return m, m.reloadSchedule()
	}
	return m, nil
}

func (m tripModel) updateMemo(msg tea.KeyMsg) (tripModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = tripSchedule
		return m, nil
	case "enter":
		m.state = tripSchedule
		acts := m.activities()
		if len(acts) == 0 {
			return m, nil
		}
		it, _ := m.schedule.Day(m.day)
		dayID := it.ID()
		place := domain.UpdateTripPlace{
			ActivityID: acts[m.actCursor].ActivityID,
			Memo:       strings.TrimSpace(m.memo),
		}
		c := m.deps.Client
		return m, func() tea.Msg {
			return memoSavedMsg{err: c.UpdateTripDay(context.Background(), dayID, []domain.UpdateTripPlace{place})}
		}
	default:
		m.memo = editRune(m.memo, msg.String())
	}
	return m, nil
}

func (m tripModel) View() string {
	switch m.state {
	case tripCreating:
		return m.creatingView()
	case tripSchedule, tripEditingMemo:
		return m.scheduleView()
	}
	return m.formView()
}

func (m tripModel) formView() string {
	var b strings.Builder
	b.WriteString(" " + sectionHeaderStyle.Render("NEW TRIP") + "\n\n")

	labels := [numTripFields]string{"title", "city", "arrive", "arrive at", "depart", "depart at", "budget", "themes", "places"}
	for i := tripField(0); i < numTripFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render("▸")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-10s", labels[i]))

		var value string
		switch i {
		case fieldCity:
			value = normalStyle.Render(domain.Destinations[m.cityIdx].Label) + "  " + metaStyle.Render("(h/l)")
		case fieldArrivalHour:
			value = normalStyle.Render(trip.HourString(m.arrivalHour)) + "  " + metaStyle.Render("(h/l)")
		case fieldDepartureHour:
			value = normalStyle.Render(trip.HourString(m.departHour)) + "  " + metaStyle.Render("(h/l)")
		case fieldThemes:
			value = m.themesView(i == m.focus)
		case fieldBudget:
			value = m.inputValue(i)
			if v, err := strconv.ParseInt(m.fields[fieldBudget], 10, 64); err == nil {
				value += "  " + metaStyle.Render(formatWon(v)+" won")
			}
		default:
			value = m.inputValue(i)
		}
		fmt.Fprintf(&b, " %s %s %s\n", cursor, label, value)
	}

	if len(m.places) > 0 {
		names := make([]string, len(m.places))
		for i, p := range m.places {
			names[i] = p.Name
		}
		b.WriteString("\n   " + metaStyle.Render("wanted: ") + normalStyle.Render(strings.Join(names, ", ")) + "\n")
	}
	if m.focus == fieldPlaces {
		if m.searching {
			b.WriteString("   " + dimStyle.Render("searching...") + "\n")
		}
		for i, p := range m.results {
			line := truncStr(p.Name, 30) + "  " + metaStyle.Render(truncStr(p.Address, 40))
			if i == m.resultCursor {
				b.WriteString("   " + accentStyle.Render("▸ ") + selectedStyle.Render(line) + "\n")
			} else {
				b.WriteString("     " + dimStyle.Render(line) + "\n")
			}
		}
	}
	return b.String()
}

func (m tripModel) inputValue(f tripField) string {
	v := m.fields[f]
	if f == m.focus {
		return normalStyle.Render(v) + accentStyle.Render("█")
	}
	if v == "" {
		return inputPlaceholderStyle.Render("—")
	}
	return dimStyle.Render(v)
}

func (m tripModel) themesView(focused bool) string {
	parts := make([]string, len(domain.TravelThemes))
	for i, t := range domain.TravelThemes {
		mark := "○ "
		style := metaStyle
		if m.themes[t] {
			mark = "● "
			style = ThemeStyle(t)
		}
		label := mark + t
		if focused && i == m.themeCursor {
			label = selectedRowBg.Render(style.Render(label))
		} else {
			label = style.Render(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}

func (m tripModel) creatingView() string {
	elapsed := m.now().Sub(m.started).Round(time.Second)
	var b strings.Builder
	b.WriteString("\n " + selectedStyle.Render("Planning "+m.title) + "\n\n")
	b.WriteString(" " + dimStyle.Render("generating your itinerary... this can take a few minutes") + "\n")
	b.WriteString(" " + metaStyle.Render("elapsed "+elapsed.String()) + "\n")
	return b.String()
}

func (m tripModel) scheduleView() string {
	if m.schedule == nil || !m.schedule.Ready() {
		return " " + dimStyle.Render("no itinerary yet")
	}
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render(m.title) + "\n")

	var days []string
	for _, it := range m.schedule.Itineraries {
		label := fmt.Sprintf("Day %d", it.Day)
		if it.Day == m.day {
			days = append(days, accentStyle.Underline(true).Render(label))
		} else {
			days = append(days, dimStyle.Render(label))
		}
	}
	b.WriteString(" " + strings.Join(days, "  ") + "\n")
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", max(m.width-2, 4))) + "\n")

	acts := m.activities()
	if len(acts) == 0 {
		b.WriteString(" " + dimStyle.Render("nothing planned for this day") + "\n")
	}
	for i, a := range acts {
		start := a.StartTime
		if start == "" {
			start = "--:--"
		}
		line := fmt.Sprintf("%5s  %s", start, truncStr(a.PlaceName, 40))
		extra := []string{}
		if a.DurationMinutes > 0 {
			extra = append(extra, fmt.Sprintf("%dm", a.DurationMinutes))
		}
		if a.Transport != "" {
			extra = append(extra, a.Transport)
		}
		if a.Cost > 0 {
			extra = append(extra, formatWon(a.Cost)+" won")
		}
		meta := ""
		if len(extra) > 0 {
			meta = "  " + metaStyle.Render(strings.Join(extra, " · "))
		}
		if i == m.actCursor {
			b.WriteString(" " + accentStyle.Render("▸") + " " + selectedStyle.Render(line) + meta + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(line) + meta + "\n")
		}
		if a.Memo != "" {
			b.WriteString("          " + commentTextStyle.Render(truncStr(a.Memo, 60)) + "\n")
		}
	}
	return b.String()
}

func (m tripModel) statusLine() string {
	switch {
	case m.state == tripEditingMemo:
		return " " + renderInput("memo> ", m.memo, "add a memo", true, false)
	case m.status == "":
		return ""
	case m.statusErr:
		return " " + errorStyle.Render(m.status)
	}
	return " " + dimStyle.Render(m.status)
}

func (m tripModel) helpKeys() string {
	switch m.state {
	case tripCreating:
		return helpLine("esc", "cancel", "q", "quit")
	case tripSchedule:
		return helpLine("[/]", "day", "j/k", "nav", "o", "map", "m", "memo", "c", "copy", "r", "refresh", "esc", "home")
	case tripEditingMemo:
		return helpLine("enter", "save", "esc", "cancel")
	}
	if m.focus == fieldPlaces {
		return helpLine("enter", "search", "ctrl+n/p", "pick", "ctrl+a", "add", "ctrl+x", "drop", "ctrl+s", "create", "esc", "cancel")
	}
	return helpLine("tab", "next", "h/l", "cycle", "space", "toggle", "ctrl+s", "create", "esc", "cancel")
}
