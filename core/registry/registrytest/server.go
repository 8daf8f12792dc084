// Package registrytest provides an in-memory registry API for tests.
package registrytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Token is the API token the fake server accepts.
const Token = "test-token"

// refFields maps writable reference fields to the resource they point at.
var refFields = map[string]string{
	"site":         "dcim/sites",
	"location":     "dcim/locations",
	"role":         "dcim/device-roles",
	"device_type":  "dcim/device-types",
	"manufacturer": "dcim/manufacturers",
	"tenant":       "tenancy/tenants",
	"region":       "dcim/regions",
	"group":        "dcim/site-groups",
	"device":       "dcim/devices",
	"primary_ip4":  "ipam/ip-addresses",
}

// filterFields maps *_id query filters to the reference field they match.
var filterFields = map[string]string{
	"site_id":   "site",
	"device_id": "device",
	"role_id":   "role",
}

// Request is a recorded API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// Server is a fake registry backed by maps. Objects are stored as decoded
// JSON; reference fields are expanded to nested objects like the real API.
type Server struct {
	*httptest.Server

	// PageSize caps list responses so pagination gets exercised.
	PageSize int
	// FailPOST makes every create on the given resource fail with 400.
	FailPOST map[string]bool

	mu       sync.Mutex
	nextID   int
	objects  map[string][]map[string]any
	requests []Request
}

// NewServer starts a fake registry. Close it when done.
func NewServer() *Server {
	s := &Server{
		PageSize: 50,
		FailPOST: map[string]bool{},
		objects:  map[string][]map[string]any{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Seed stores obj under resource (for example "dcim/sites") and returns its id.
func (s *Server) Seed(resource string, obj map[string]any) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(resource, obj)
}

// Objects returns a copy of every object stored under resource.
func (s *Server) Objects(resource string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.objects[resource]))
	copy(out, s.objects[resource])
	return out
}

// Requests returns the recorded calls with the given method on resource.
func (s *Server) Requests(method, resource string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Method == method && strings.HasPrefix(r.Path, resource) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) insert(resource string, obj map[string]any) int {
	s.nextID++
	stored := map[string]any{"id": s.nextID}
	for k, v := range obj {
		stored[k] = s.expand(k, v)
	}
	s.objects[resource] = append(s.objects[resource], stored)
	return s.nextID
}

// expand turns a numeric reference into a nested object.
func (s *Server) expand(field string, v any) any {
	resource, ok := refFields[field]
	if !ok {
		return v
	}
	id, ok := asInt(v)
	if !ok {
		return v
	}
	nested := map[string]any{"id": id}
	if target := s.find(resource, id); target != nil {
		for _, k := range []string{"name", "slug", "model", "address"} {
			if val, ok := target[k]; ok {
				nested[k] = val
			}
		}
	}
	return nested
}

func (s *Server) find(resource string, id int) map[string]any {
	for _, obj := range s.objects[resource] {
		if oid, _ := asInt(obj["id"]); oid == id {
			return obj
		}
	}
	return nil
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Token "+Token {
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusForbidden)
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}
	resource := parts[0] + "/" + parts[1]

	var body map[string]any
	if r.Body != nil && r.Method != http.MethodGet {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{Method: r.Method, Path: resource, Query: r.URL.Query(), Body: body})

	switch {
	case r.Method == http.MethodGet && len(parts) == 2:
		s.list(w, r, resource)
	case r.Method == http.MethodPost && len(parts) == 2:
		if s.FailPOST[resource] {
			writeJSON(w, http.StatusBadRequest, map[string]any{"name": []string{"invalid"}})
			return
		}
		id := s.insert(resource, body)
		writeJSON(w, http.StatusCreated, s.find(resource, id))
	case r.Method == http.MethodPatch && len(parts) == 3:
		id, err := strconv.Atoi(parts[2])
		obj := s.find(resource, id)
		if err != nil || obj == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Not found."})
			return
		}
		for k, v := range body {
			obj[k] = s.expand(k, v)
		}
		writeJSON(w, http.StatusOK, obj)
	default:
		http.Error(w, "unsupported", http.StatusMethodNotAllowed)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, resource string) {
	q := r.URL.Query()

	var matched []map[string]any
	for _, obj := range s.objects[resource] {
		if matches(obj, q) {
			matched = append(matched, obj)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, _ := asInt(matched[i]["id"])
		b, _ := asInt(matched[j]["id"])
		return a < b
	})

	offset, _ := strconv.Atoi(q.Get("offset"))
	limit := s.PageSize
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 && l < limit {
		limit = l
	}

	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	results := []map[string]any{}
	if offset < len(matched) {
		results = matched[offset:end]
	}

	var next any
	if end < len(matched) {
		nq := url.Values{}
		for k, v := range q {
			nq[k] = v
		}
		nq.Set("offset", strconv.Itoa(end))
		next = fmt.Sprintf("%s%s?%s", s.URL, r.URL.Path, nq.Encode())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(matched),
		"next":     next,
		"previous": nil,
		"results":  results,
	})
}

func matches(obj map[string]any, q url.Values) bool {
	for key, values := range q {
		if key == "limit" || key == "offset" || len(values) == 0 {
			continue
		}
		want := values[0]

		if field, ok := filterFields[key]; ok {
			nested, _ := obj[field].(map[string]any)
			if nested == nil || fmt.Sprint(nested["id"]) != want {
				return false
			}
			continue
		}
		if key == "role" {
			nested, _ := obj["role"].(map[string]any)
			if nested == nil || fmt.Sprint(nested["slug"]) != want {
				return false
			}
			continue
		}

		if fmt.Sprint(obj[key]) != want {
			return false
		}
	}
	return true
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
