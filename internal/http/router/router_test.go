package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/ums/internal/auth"
	"github.com/dropDatabas3/ums/internal/cache"
	"github.com/dropDatabas3/ums/internal/domain/repository"
	"github.com/dropDatabas3/ums/internal/domain/types"
	"github.com/dropDatabas3/ums/internal/http/controllers"
	"github.com/dropDatabas3/ums/internal/http/services"
	"github.com/dropDatabas3/ums/internal/jwt"
	"github.com/dropDatabas3/ums/internal/metrics"
	"github.com/dropDatabas3/ums/internal/rate"
	"github.com/dropDatabas3/ums/internal/security/password"
	"github.com/dropDatabas3/ums/internal/store/memory"
)

var fastParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}

// Marzo: el semestre vigente es Spring.
var fixedNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

type env struct {
	srv     *httptest.Server
	store   *memory.Store
	metrics *metrics.Metrics
}

func newEnv(t *testing.T, limiter rate.Limiter) *env {
	t.Helper()
	store := memory.New()

	issuer, err := jwt.NewIssuer("ums-test", []byte("router-test-secret-0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	m := metrics.New()
	verifier := auth.NewVerifier(auth.VerifierDeps{
		Stores:     auth.StoresFrom(store),
		Issuer:     issuer,
		HashParams: &fastParams,
	})
	svcs := services.New(services.Deps{
		Store:      store,
		Cache:      cache.NewMemory(time.Minute),
		StatsTTL:   time.Minute,
		HashParams: fastParams,
		Policy:     password.Policy{MinLength: 8, RequireDigit: true},
		Now:        func() time.Time { return fixedNow },
	})

	h := New(Deps{
		Controllers:  controllers.New(svcs, verifier, m),
		Gate:         auth.NewGate(issuer),
		Metrics:      m,
		LoginLimiter: limiter,
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &env{srv: srv, store: store, metrics: m}
}

func (e *env) seed(t *testing.T, role types.Role, email, plain string, extra func(*repository.CreatePrincipalInput)) int64 {
	t.Helper()
	hash, err := password.Hash(fastParams, plain)
	require.NoError(t, err)
	in := repository.CreatePrincipalInput{Email: email, Name: string(role) + " user", PasswordHash: hash}
	if extra != nil {
		extra(&in)
	}
	repo, err := auth.StoresFrom(e.store).For(role)
	require.NoError(t, err)
	p, err := repo.Create(context.Background(), in)
	require.NoError(t, err)
	return p.ID
}

func (e *env) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any, []any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw json.RawMessage
	_ = json.NewDecoder(resp.Body).Decode(&raw)
	var obj map[string]any
	var arr []any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &arr))
	} else if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &obj))
	}
	return resp, obj, arr
}

func (e *env) login(t *testing.T, email, plain string, role types.Role) string {
	t.Helper()
	resp, body, _ := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": plain, "role": string(role),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestStudentTokenIsScopedToStudentRoutes(t *testing.T) {
	e := newEnv(t, nil)
	e.seed(t, types.RoleStudent, "ana@ums.edu", "student-pass-1", func(in *repository.CreatePrincipalInput) { in.StudentID = "S-001" })

	resp, body, _ := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@ums.edu", "password": "student-pass-1", "role": "student",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	require.Equal(t, "student", user["role"])
	require.Equal(t, "S-001", user["student_id"])
	_, leaked := user["password_hash"]
	require.False(t, leaked)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	tok := body["token"].(string)

	resp, body, _ = e.do(t, http.MethodGet, "/api/instructor/courses", tok, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", body["code"])
	require.NotEmpty(t, body["message"])

	resp, _, arr := e.do(t, http.MethodGet, "/api/student/my-courses", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, arr)
}

func TestLoginErrors(t *testing.T) {
	e := newEnv(t, nil)
	e.seed(t, types.RoleAdmin, "admin@ums.com", "admin123", nil)

	cases := []struct {
		name   string
		body   map[string]string
		status int
		msg    string
	}{
		{"missing role", map[string]string{"email": "admin@ums.com", "password": "admin123"}, http.StatusBadRequest, "Please provide email, password and role"},
		{"invalid role", map[string]string{"email": "admin@ums.com", "password": "admin123", "role": "root"}, http.StatusBadRequest, "Invalid role"},
		{"wrong password", map[string]string{"email": "admin@ums.com", "password": "nope", "role": "admin"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", map[string]string{"email": "ghost@ums.com", "password": "admin123", "role": "admin"}, http.StatusUnauthorized, "Invalid credentials"},
		{"other role table", map[string]string{"email": "admin@ums.com", "password": "admin123", "role": "student"}, http.StatusUnauthorized, "Invalid credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body, _ := e.do(t, http.MethodPost, "/api/auth/login", "", tc.body)
			require.Equal(t, tc.status, resp.StatusCode)
			require.Equal(t, tc.msg, body["message"])
		})
	}

	// email case-insensitive
	e.login(t, "  ADMIN@ums.com ", "admin123", types.RoleAdmin)
}

func TestVerify(t *testing.T) {
	e := newEnv(t, nil)
	id := e.seed(t, types.RoleInstructor, "ins@ums.edu", "instructor-1", func(in *repository.CreatePrincipalInput) { in.Department = "CS" })
	tok := e.login(t, "ins@ums.edu", "instructor-1", types.RoleInstructor)

	resp, body, _ := e.do(t, http.MethodGet, "/api/auth/verify", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(id), body["id"])
	require.Equal(t, "instructor", body["role"])
	require.Equal(t, "CS", body["department"])

	resp, body, _ = e.do(t, http.MethodGet, "/api/auth/verify", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "TOKEN_MISSING", body["code"])

	resp, body, _ = e.do(t, http.MethodGet, "/api/auth/verify", tok+"x", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "TOKEN_INVALID", body["code"])

	// principal borrado después de emitir el token
	require.NoError(t, e.store.Instructors().Delete(context.Background(), id))
	resp, _, _ = e.do(t, http.MethodGet, "/api/auth/verify", tok, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminManagesAccounts(t *testing.T) {
	e := newEnv(t, nil)
	e.seed(t, types.RoleAdmin, "admin@ums.com", "admin123", nil)
	adm := e.login(t, "admin@ums.com", "admin123", types.RoleAdmin)

	resp, body, _ := e.do(t, http.MethodGet, "/api/admin/dashboard", adm, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Admin dashboard", body["message"])

	// sin password: el server genera una inicial
	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/instructors", adm, map[string]string{
		"name": "Grace", "email": "grace@ums.edu", "department": "CS",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	initial, _ := body["initialPassword"].(string)
	require.Len(t, initial, 16)
	insID := int64(body["id"].(float64))
	e.login(t, "grace@ums.edu", initial, types.RoleInstructor)

	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/instructors", adm, map[string]string{
		"name": "Grace 2", "email": "GRACE@ums.edu",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/students", adm, map[string]string{
		"name": "Alan", "email": "alan@ums.edu", "studentId": "S-42", "password": "weak",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "PASSWORD_TOO_WEAK", body["code"])

	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/students", adm, map[string]string{
		"name": "Alan", "email": "alan@ums.edu", "studentId": "S-42", "password": "turing1912",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	_, hasInitial := body["initialPassword"]
	require.False(t, hasInitial)
	stuID := int64(body["id"].(float64))

	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/students", adm, map[string]string{
		"name": "Other", "email": "other@ums.edu", "studentId": "S-42",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, body)

	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/students", adm, map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body["detail"], "name")

	resp, body, _ = e.do(t, http.MethodPost, "/api/admin/courses", adm, map[string]any{
		"course_code": "CS101", "course_name": "Intro", "credits": 3, "department": "CS",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body, _ = e.do(t, http.MethodGet, "/api/admin/statistics", adm, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, map[string]any{"totalStudents": 1.0, "totalInstructors": 1.0, "totalCourses": 1.0}, body)

	resp, _, _ = e.do(t, http.MethodPut, fmt.Sprintf("/api/admin/students/%d", stuID), adm, map[string]string{
		"name": "Alan T", "email": "alan@ums.edu", "studentId": "S-43",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, _, arr := e.do(t, http.MethodGet, "/api/admin/students", adm, nil)
	require.Len(t, arr, 1)
	require.Equal(t, "S-43", arr[0].(map[string]any)["student_id"])

	resp, _, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/instructors/%d", insID), adm, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/instructors/%d", insID), adm, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _, _ = e.do(t, http.MethodDelete, "/api/admin/instructors/abc", adm, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// la baja invalida el cache de estadísticas
	_, body, _ = e.do(t, http.MethodGet, "/api/admin/statistics", adm, nil)
	require.Equal(t, 0.0, body["totalInstructors"])
}

func TestCourseLifecycle(t *testing.T) {
	e := newEnv(t, nil)
	e.seed(t, types.RoleAdmin, "admin@ums.com", "admin123", nil)
	e.seed(t, types.RoleInstructor, "ins@ums.edu", "instructor-1", nil)
	e.seed(t, types.RoleInstructor, "other@ums.edu", "instructor-2", nil)
	stuID := e.seed(t, types.RoleStudent, "stu@ums.edu", "student-1", func(in *repository.CreatePrincipalInput) { in.StudentID = "S-1" })
	lazyID := e.seed(t, types.RoleStudent, "lazy@ums.edu", "student-2", func(in *repository.CreatePrincipalInput) { in.StudentID = "S-2" })

	adm := e.login(t, "admin@ums.com", "admin123", types.RoleAdmin)
	ins := e.login(t, "ins@ums.edu", "instructor-1", types.RoleInstructor)
	other := e.login(t, "other@ums.edu", "instructor-2", types.RoleInstructor)
	stu := e.login(t, "stu@ums.edu", "student-1", types.RoleStudent)
	lazy := e.login(t, "lazy@ums.edu", "student-2", types.RoleStudent)

	_, body, _ := e.do(t, http.MethodPost, "/api/admin/courses", adm, map[string]any{
		"course_code": "CS101", "course_name": "Intro", "credits": 3,
	})
	courseID := body["id"].(float64)

	resp, _, _ := e.do(t, http.MethodPost, "/api/instructor/offer-course", ins, map[string]any{"courseId": 9999, "semester": "Spring", "year": 2025})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _, _ = e.do(t, http.MethodPost, "/api/instructor/offer-course", ins, map[string]any{"courseId": courseID, "semester": "Summer", "year": 2025})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body, _ = e.do(t, http.MethodPost, "/api/instructor/offer-course", ins, map[string]any{"courseId": courseID, "semester": "Spring", "year": 2025})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	ocID := int64(body["id"].(float64))
	// oferta de otro semestre: no aparece en available-courses
	e.do(t, http.MethodPost, "/api/instructor/offer-course", ins, map[string]any{"courseId": courseID, "semester": "Fall", "year": 2025})

	_, _, arr := e.do(t, http.MethodGet, "/api/instructor/courses", ins, nil)
	require.Len(t, arr, 2)
	_, _, arr = e.do(t, http.MethodGet, "/api/instructor/courses", other, nil)
	require.Empty(t, arr)

	_, _, arr = e.do(t, http.MethodGet, "/api/student/available-courses", stu, nil)
	require.Len(t, arr, 1)
	first := arr[0].(map[string]any)
	require.Equal(t, float64(ocID), first["offered_course_id"])
	require.Equal(t, "Spring", first["semester"])
	require.Equal(t, "instructor user", first["instructor_name"])

	resp, _, _ = e.do(t, http.MethodPost, "/api/student/register-course", stu, map[string]any{"offeredCourseId": ocID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _, _ = e.do(t, http.MethodPost, "/api/student/register-course", stu, map[string]any{"offeredCourseId": ocID})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _, _ = e.do(t, http.MethodPost, "/api/student/register-course", stu, map[string]any{"offeredCourseId": 424242})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, _, arr = e.do(t, http.MethodGet, "/api/student/my-courses", stu, nil)
	require.Len(t, arr, 1)
	require.Equal(t, "CS101", arr[0].(map[string]any)["course_code"])

	resp, _, arr = e.do(t, http.MethodGet, fmt.Sprintf("/api/instructor/course-students/%d", ocID), ins, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, arr, 1)
	resp, _, _ = e.do(t, http.MethodGet, fmt.Sprintf("/api/instructor/course-students/%d", ocID), other, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	mark := func(tok string, student int64, marks, total float64) *http.Response {
		resp, _, _ := e.do(t, http.MethodPost, "/api/instructor/post-marks", tok, map[string]any{
			"offeredCourseId": ocID, "studentId": student, "activityType": "quiz", "marks": marks, "totalMarks": total,
		})
		return resp
	}
	require.Equal(t, http.StatusNotFound, mark(other, stuID, 5, 10).StatusCode)
	require.Equal(t, http.StatusUnprocessableEntity, mark(ins, stuID, 11, 10).StatusCode)
	require.Equal(t, http.StatusUnprocessableEntity, mark(ins, stuID, 1, 0).StatusCode)
	require.Equal(t, http.StatusCreated, mark(ins, stuID, 8, 10).StatusCode)
	require.Equal(t, http.StatusCreated, mark(ins, stuID, 0, 10).StatusCode)

	require.Equal(t, http.StatusBadRequest, mark(ins, lazyID, 5, 10).StatusCode)

	_, _, arr = e.do(t, http.MethodGet, fmt.Sprintf("/api/student/course-marks/%d", ocID), stu, nil)
	require.Len(t, arr, 2)
	_, _, arr = e.do(t, http.MethodGet, fmt.Sprintf("/api/student/course-marks/%d", ocID), lazy, nil)
	require.Empty(t, arr)

	resp, body, _ = e.do(t, http.MethodGet, "/api/instructor/stats", ins, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1.0, body["totalStudents"])
	require.Equal(t, 2.0, body["totalCourses"])
	require.InDelta(t, 40.0, body["averageGrade"], 0.001)

	// curso con ofertas no se puede borrar
	resp, _, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/admin/courses/%d", int64(courseID)), adm, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	e := newEnv(t, rate.NewMemoryLimiter(nil, 2, time.Hour))
	body := map[string]string{"email": "x@ums.com", "password": "bad", "role": "admin"}

	for i := 0; i < 2; i++ {
		resp, _, _ := e.do(t, http.MethodPost, "/api/auth/login", "", body)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, msg, _ := e.do(t, http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "RATE_LIMIT_EXCEEDED", msg["code"])
}

func TestLoginRateLimitIgnoresForwardedFor(t *testing.T) {
	e := newEnv(t, rate.NewMemoryLimiter(nil, 2, time.Hour))

	var codes []int
	for i := 1; i <= 10; i++ {
		req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/auth/login",
			strings.NewReader(`{"email":"x@ums.com","password":"bad","role":"admin"}`))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	require.Equal(t, []int{401, 401, 429, 429, 429, 429, 429, 429, 429, 429}, codes)
}

func TestLoginWithoutJSONContentType(t *testing.T) {
	e := newEnv(t, nil)
	e.seed(t, types.RoleAdmin, "admin@ums.com", "admin123", nil)

	for _, ct := range []string{"", "text/plain", "application/x-www-form-urlencoded"} {
		t.Run("content-type "+ct, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/api/auth/login",
				strings.NewReader(`{"email":"admin@ums.com","password":"admin123","role":"admin"}`))
			require.NoError(t, err)
			if ct != "" {
				req.Header.Set("Content-Type", ct)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, "MISSING_FIELDS", body["code"])
		})
	}
}

func TestPlatformRoutes(t *testing.T) {
	e := newEnv(t, nil)

	resp, body, _ := e.do(t, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ready", body["status"])

	resp, body, _ = e.do(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", body["code"])

	e.do(t, http.MethodGet, "/api/admin/dashboard", "", nil)
	resp, _, _ = e.do(t, http.MethodGet, "/api/student/course-marks/42", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	res, err := http.Get(e.srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(res.Body)
	out := buf.String()
	require.Contains(t, out, `auth_gate_decisions_total{required_role="admin",result="missing_token"} 1`)
	// rechazados por el gate igual llevan el patrón de la ruta, no el del área
	require.Contains(t, out, `http_requests_total{method="GET",route="/api/admin/dashboard",status="401"} 1`)
	require.Contains(t, out, `route="/api/student/course-marks/{offeredCourseId}",status="401"`)
	require.NotContains(t, out, `route="/api/admin/*"`)
}
