package climate

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sharkins95/sqlalchemy-challenge/internal/dataset"
)

func TestRegisterFeature_statsOverDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hawaii.sqlite")
	if err := dataset.Create(path, false); err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	rw, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := rw.Exec(`
		INSERT INTO station (station, name) VALUES ('USC00519281', 'WAIHEE 837.5, HI US');
		INSERT INTO measurement (station, date, prcp, tobs) VALUES
			('USC00519281', '2017-08-22', 0.0, 79),
			('USC00519281', '2017-08-23', 0.1, 81);
	`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() { _ = rw.Close() })

	mux := http.NewServeMux()
	RegisterFeature(mux, rw)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1.0/2017-08-23/2017-08-23", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	var got []map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	if len(got) != 1 || got[0]["Tmin"] != 81 || got[0]["Tmax"] != 81 || got[0]["Tavg"] != 81 {
		t.Errorf("stats = %v; want Tmin=Tmax=Tavg=81", got)
	}
}

func TestRegisterFeature_emptyStations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sqlite")
	if err := dataset.Create(path, false); err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mux := http.NewServeMux()
	RegisterFeature(mux, db)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1.0/stations", nil))

	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q; want []", got)
	}
}
