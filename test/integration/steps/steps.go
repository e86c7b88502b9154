package steps

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spendwise/backend/internal/application/adapter"
	"github.com/spendwise/backend/internal/domain/entity"
	"github.com/spendwise/backend/internal/integration/persistence/model"
)

const streamEventTimeout = 5 * time.Second

func registerSetupSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Given(`^the API server is running$`, t.startServer)
	ctx.Given(`^the current time is "([^"]*)"$`, t.theCurrentTimeIs)
	ctx.Given(`^I am authenticated as "([^"]*)" with email "([^"]*)"$`, t.iAmAuthenticatedAs)
	ctx.Given(`^I use the token "([^"]*)"$`, t.iUseTheToken)
	ctx.Given(`^the following expenses exist for "([^"]*)":$`, t.theFollowingExpensesExistFor)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, t.theHeaderContainsTheKeyWith)
}

func registerRequestSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, t.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, t.iSendARequestToWithBody)
}

func registerResponseSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Then(`^the response status should be (\d+)$`, t.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, t.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, t.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, t.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, t.theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items$`, t.theResponseFieldShouldHaveItems)
}

func registerStreamSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.When(`^I open the analytics stream with query "([^"]*)"$`, t.iOpenTheAnalyticsStream)
	ctx.Then(`^I should receive an? "([^"]*)" event$`, t.iShouldReceiveAnEvent)
	ctx.Then(`^I should receive an "analytics" event with field "([^"]*)" equal to "([^"]*)"$`, t.iShouldReceiveAnAnalyticsEventWith)
	ctx.When(`^I close the analytics stream$`, t.iCloseTheAnalyticsStream)
	ctx.Then(`^(\d+) live streams? should be listening for "([^"]*)"$`, t.liveStreamsShouldBeListeningFor)
}

func registerEmailSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Given(`^the email API responds with status (\d+)$`, t.theEmailAPIRespondsWithStatus)
	ctx.When(`^the clock advances by "([^"]*)"$`, t.theClockAdvancesBy)
	ctx.When(`^the email worker processes pending emails$`, t.theEmailWorkerProcessesPendingEmails)
	ctx.Then(`^the email API should have received (\d+) emails?$`, t.theEmailAPIShouldHaveReceived)
	ctx.Then(`^the last email should be sent to "([^"]*)"$`, t.theLastEmailShouldBeSentTo)
	ctx.Then(`^the last email subject should contain "([^"]*)"$`, t.theLastEmailSubjectShouldContain)
	ctx.Then(`^the last email should be tagged "([^"]*)" with "([^"]*)"$`, t.theLastEmailShouldBeTagged)
}

func registerDatabaseSteps(ctx *godog.ScenarioContext, t *testContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, t.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, t.theDbShouldContainObjectsInWithTheValues)
}

// Setup steps

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return err
	}
	t.clock.Set(now)
	return nil
}

func (t *testContext) iAmAuthenticatedAs(userID, email string) error {
	token, err := t.issuer.Issue(adapter.Identity{
		UserID: userID,
		Email:  email,
		Name:   "Test User",
	}, time.Now())
	if err != nil {
		return err
	}
	t.accessToken = token
	return nil
}

func (t *testContext) iUseTheToken(token string) error {
	t.accessToken = token
	return nil
}

// theFollowingExpensesExistFor inserts rows straight into the database; the
// table needs amount, description, category and date columns.
func (t *testContext) theFollowingExpensesExistFor(userID string, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("expense table needs a header and at least one row")
	}

	columns := make(map[string]int)
	for i, cell := range table.Rows[0].Cells {
		columns[cell.Value] = i
	}
	for _, name := range []string{"amount", "description", "category", "date"} {
		if _, ok := columns[name]; !ok {
			return fmt.Errorf("expense table is missing column %q", name)
		}
	}

	for _, row := range table.Rows[1:] {
		value := func(name string) string { return row.Cells[columns[name]].Value }
		amount, err := strconv.ParseFloat(value("amount"), 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", value("amount"), err)
		}
		expense := entity.NewExpense(userID, amount, value("description"), entity.CategoryID(value("category")), value("date"))
		if err := t.db.Conn().Create(model.ExpenseModelFromEntity(expense)).Error; err != nil {
			return err
		}
		t.expenseIDs = append(t.expenseIDs, expense.ID)
	}
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

// Request steps

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

// replacePlaceholders substitutes {{expense_id}} with the most recent expense
// and {{expense_id.N}} with the N-th one, counting from zero.
func (t *testContext) replacePlaceholders(content string) string {
	for i, id := range t.expenseIDs {
		content = strings.ReplaceAll(content, fmt.Sprintf("{{expense_id.%d}}", i), id.String())
	}
	if n := len(t.expenseIDs); n > 0 {
		content = strings.ReplaceAll(content, "{{expense_id}}", t.expenseIDs[n-1].String())
	}
	return content
}

func (t *testContext) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.uri+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	req, err := t.newRequest(context.Background(), method, path, payload)
	if err != nil {
		return err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// created expenses answer with their id at the top level
	if method == http.MethodPost {
		if idStr, ok := responseBody["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.expenseIDs = append(t.expenseIDs, id)
			}
		}
	}
	return nil
}

// Response steps

func (t *testContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	return body, nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	_, err := t.jsonBody()
	return err
}

func (t *testContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	return fieldEquals(body, field, expectedValue)
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldHaveItems(field string, count int) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not an array: %v", field, body)
	}
	if len(items) != count {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, count, len(items))
	}
	return nil
}

func fieldEquals(object map[string]any, field, expectedValue string) error {
	value := getFieldValue(object, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in: %v", field, object)
	}
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

// Stream steps

func (t *testContext) iOpenTheAnalyticsStream(query string) error {
	t.closeStream()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := t.newRequest(ctx, http.MethodGet, "/api/v1/analytics/stream"+query, nil)
	if err != nil {
		cancel()
		return err
	}

	// the shared client has a timeout, which would cut the stream
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		cancel()
		return err
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		defer cancel()
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.response = &response{status: resp.StatusCode}
		var responseBody map[string]any
		if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
			t.response.body = string(bodyBytes)
		} else {
			t.response.body = responseBody
		}
		return nil
	}

	t.response = &response{status: resp.StatusCode}
	t.stream = &analyticsStream{
		reader: bufio.NewReader(resp.Body),
		cancel: cancel,
		body:   resp.Body,
	}
	return nil
}

func (t *testContext) liveStreamsShouldBeListeningFor(count int, userID string) error {
	return t.redis.WaitForSubscribers(userID, count, streamEventTimeout)
}

type sseEvent struct {
	name string
	data string
}

// nextEvent reads one event, giving up after streamEventTimeout.
func (t *testContext) nextEvent() (sseEvent, error) {
	if t.stream == nil {
		return sseEvent{}, errors.New("no analytics stream is open")
	}

	type result struct {
		ev  sseEvent
		err error
	}
	done := make(chan result, 1)
	go func() {
		var ev sseEvent
		for {
			line, err := t.stream.reader.ReadString('\n')
			if err != nil {
				done <- result{err: err}
				return
			}
			line = strings.TrimRight(line, "\r\n")
			switch {
			case line == "":
				if ev.name != "" {
					done <- result{ev: ev}
					return
				}
			case strings.HasPrefix(line, "event:"):
				ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				ev.data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
	}()

	select {
	case r := <-done:
		return r.ev, r.err
	case <-time.After(streamEventTimeout):
		// unblock the reader goroutine
		t.closeStream()
		return sseEvent{}, errors.New("timed out waiting for a stream event")
	}
}

// nextEventNamed skips events of other kinds, such as heartbeats.
func (t *testContext) nextEventNamed(name string) (sseEvent, error) {
	for i := 0; i < 20; i++ {
		ev, err := t.nextEvent()
		if err != nil {
			return ev, err
		}
		if ev.name == name {
			return ev, nil
		}
	}
	return sseEvent{}, fmt.Errorf("no %q event among the next 20", name)
}

func (t *testContext) iShouldReceiveAnEvent(name string) error {
	_, err := t.nextEventNamed(name)
	return err
}

func (t *testContext) iShouldReceiveAnAnalyticsEventWith(field, expectedValue string) error {
	ev, err := t.nextEventNamed("analytics")
	if err != nil {
		return err
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(ev.data), &payload); err != nil {
		return fmt.Errorf("analytics event is not JSON: %w", err)
	}
	return fieldEquals(payload, field, expectedValue)
}

func (t *testContext) iCloseTheAnalyticsStream() error {
	t.closeStream()
	return nil
}

func (t *testContext) closeStream() {
	if t.stream == nil {
		return
	}
	t.stream.cancel()
	_ = t.stream.body.Close()
	t.stream = nil
}

// Email steps

func (t *testContext) theClockAdvancesBy(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	t.clock.Advance(d)
	return nil
}

func (t *testContext) theEmailAPIRespondsWithStatus(status int) error {
	t.emailAPI.SetResponseStatus(status)
	return nil
}

func (t *testContext) theEmailWorkerProcessesPendingEmails() error {
	if injector == nil {
		return errors.New("server is not running")
	}
	injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) theEmailAPIShouldHaveReceived(count int) error {
	if got := len(t.emailAPI.Emails()); got != count {
		return fmt.Errorf("expected %d emails, got %d", count, got)
	}
	return nil
}

func (t *testContext) lastEmail() (map[string]any, error) {
	emails := t.emailAPI.Emails()
	if len(emails) == 0 {
		return nil, errors.New("no emails received")
	}
	return emails[len(emails)-1], nil
}

func (t *testContext) theLastEmailShouldBeSentTo(address string) error {
	email, err := t.lastEmail()
	if err != nil {
		return err
	}
	return fieldEquals(email, "to.0", address)
}

func (t *testContext) theLastEmailSubjectShouldContain(text string) error {
	email, err := t.lastEmail()
	if err != nil {
		return err
	}
	subject, _ := email["subject"].(string)
	if !strings.Contains(subject, text) {
		return fmt.Errorf("subject %q does not contain %q", subject, text)
	}
	return nil
}

func (t *testContext) theLastEmailShouldBeTagged(name, value string) error {
	email, err := t.lastEmail()
	if err != nil {
		return err
	}
	tags, _ := email["tags"].([]any)
	for _, raw := range tags {
		tag, _ := raw.(map[string]any)
		if tag["name"] == name {
			if tag["value"] != value {
				return fmt.Errorf("tag %s is %v, want %s", name, tag["value"], value)
			}
			return nil
		}
	}
	return fmt.Errorf("email has no %q tag: %v", name, email["tags"])
}

// Database steps

func (t *testContext) modelSlice(table string) (reflect.Value, error) {
	m, ok := t.db.Model(table)
	if !ok {
		return reflect.Value{}, fmt.Errorf("table '%s' not found in models", table)
	}
	entityType := reflect.TypeOf(m).Elem()
	entitySlice := reflect.MakeSlice(reflect.SliceOf(entityType), 0, 0)
	entitySlicePtr := reflect.New(entitySlice.Type())
	entitySlicePtr.Elem().Set(entitySlice)
	return entitySlicePtr, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	rows, err := t.modelSlice(table)
	if err != nil {
		return err
	}
	if err := t.db.Conn().Find(rows.Interface()).Error; err != nil {
		return err
	}
	if count := rows.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(content.Content), &criteria); err != nil {
		return err
	}

	rows, err := t.modelSlice(table)
	if err != nil {
		return err
	}
	query := t.db.Conn()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}
	if err := query.Find(rows.Interface()).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if count := rows.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

// getFieldValue walks a dot-separated path; numeric segments index arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	var objectMap map[string]any
	switch v := object.(type) {
	case map[string]any:
		objectMap = v
	default:
		objectJSON, _ := json.Marshal(object)
		if err := json.Unmarshal(objectJSON, &objectMap); err != nil {
			return nil
		}
	}

	var field any = objectMap
	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
