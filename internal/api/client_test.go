package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

const (
	daysJSON = `[
  {"id":1,"name":"Monday","appointments":[1,2],"interviewers":[1,2],"spots":1},
  {"id":2,"name":"Tuesday","appointments":[3],"interviewers":[2],"spots":0}
]`
	appointmentsJSON = `{
  "1":{"id":1,"time":"12pm","interview":{"student":"Archie Cohen","interviewer":2}},
  "2":{"id":2,"time":"1pm","interview":null},
  "3":{"id":3,"time":"12pm","interview":{"student":"Leopold Silvers","interviewer":1}}
}`
	interviewersJSON = `{
  "1":{"id":1,"name":"Sylvia Palmer","avatar":"https://i.imgur.com/LpaY82x.png"},
  "2":{"id":2,"name":"Tori Malcolm","avatar":"https://i.imgur.com/Nmx0Qxo.png"}
}`
)

func backend(t *testing.T, override map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	bodies := map[string]string{
		PathDays:         daysJSON,
		PathAppointments: appointmentsJSON,
		PathInterviewers: interviewersJSON,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := override[r.URL.Path]; ok {
			h(w, r)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchAll(t *testing.T) {
	srv := backend(t, nil)
	c := NewClient(srv.URL + "/")

	s, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(s.Days) != 2 || s.Days[0].Name != "Monday" || s.Days[1].Spots != 0 {
		t.Errorf("days = %+v", s.Days)
	}
	if len(s.Appointments) != 3 {
		t.Fatalf("appointments = %d, want 3", len(s.Appointments))
	}
	if s.Appointments[1].Interview == nil || s.Appointments[1].Interview.Student != "Archie Cohen" {
		t.Errorf("appointment 1 = %+v", s.Appointments[1])
	}
	if s.Appointments[2].Interview != nil {
		t.Errorf("appointment 2 should be open, got %+v", s.Appointments[2].Interview)
	}
	if s.Interviewers[2].Name != "Tori Malcolm" {
		t.Errorf("interviewer 2 = %+v", s.Interviewers[2])
	}
}

func TestClient_FetchAll_Concurrent(t *testing.T) {
	// Each handler blocks until all three requests have arrived.
	var wg sync.WaitGroup
	wg.Add(3)
	arrived := make(chan struct{})
	go func() {
		wg.Wait()
		close(arrived)
	}()

	wait := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			wg.Done()
			select {
			case <-arrived:
			case <-time.After(5 * time.Second):
				http.Error(w, "requests were not concurrent", http.StatusGatewayTimeout)
				return
			}
			w.Write([]byte(body))
		}
	}
	srv := backend(t, map[string]http.HandlerFunc{
		PathDays:         wait(daysJSON),
		PathAppointments: wait(appointmentsJSON),
		PathInterviewers: wait(interviewersJSON),
	})

	if _, err := NewClient(srv.URL).FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
}

func TestClient_FetchAll_OneFails(t *testing.T) {
	srv := backend(t, map[string]http.HandlerFunc{
		PathInterviewers: func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})

	s, err := NewClient(srv.URL).FetchAll(context.Background())
	if err == nil {
		t.Fatal("expected error when one endpoint fails")
	}
	if !errors.Is(err, ErrStatus) {
		t.Errorf("err = %v, want ErrStatus", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError || se.Path != PathInterviewers {
		t.Errorf("err = %#v, want StatusError for %s", err, PathInterviewers)
	}
	if s.Days != nil || s.Appointments != nil {
		t.Error("no partial state should be returned")
	}
}

func TestClient_FetchAll_BadJSON(t *testing.T) {
	srv := backend(t, map[string]http.HandlerFunc{
		PathDays: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("{not an array"))
		},
	})

	if _, err := NewClient(srv.URL).FetchAll(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_FetchAll_NullBodies(t *testing.T) {
	null := func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("null")) }
	srv := backend(t, map[string]http.HandlerFunc{
		PathDays:         null,
		PathAppointments: null,
		PathInterviewers: null,
	})

	s, err := NewClient(srv.URL).FetchAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.Days == nil || s.Appointments == nil || s.Interviewers == nil {
		t.Errorf("collections should be empty, not nil: %+v", s)
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := backend(t, nil)
	url := srv.URL
	srv.Close()

	if _, err := NewClient(url).Days(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := backend(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(srv.URL).FetchAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
