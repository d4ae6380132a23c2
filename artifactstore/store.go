package artifactstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/crytic/solcpipe/compilation/types"
	"github.com/crytic/solcpipe/logging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/exp/maps"
)

var (
	artifactsBucket = []byte("artifacts")
	runsBucket      = []byte("runs")
	metaBucket      = []byte("meta")
	lastRunKey      = []byte("lastRun")
)

// ErrNotFound is returned when a requested artifact or run is not in the store.
var ErrNotFound = errors.New("not found in artifact store")

// StoredArtifact is an artifact together with the run that produced it.
type StoredArtifact struct {
	RunID    string                  `json:"runId"`
	StoredAt time.Time               `json:"storedAt"`
	Artifact *types.CompiledArtifact `json:"artifact"`
}

// RunRecord describes one stored compilation run.
type RunRecord struct {
	RunID     string    `json:"runId"`
	Timestamp time.Time `json:"timestamp"`
	Contracts []string  `json:"contracts"`
}

// Store keeps the latest artifact for every contract name, plus a record of each run, in a bolt database.
type Store struct {
	db     *bbolt.DB
	logger *logging.Logger
}

// Open opens or creates the store at path, creating parent directories as needed.
func Open(path string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.GlobalLogger
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create artifact store directory")
		}
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open artifact store '%s'", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{artifactsBucket, runsBucket, metaBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	return &Store{db: db, logger: logger.NewSubLogger("module", logging.STORE_SERVICE)}, nil
}

// PutRun stores every artifact of a run in a single transaction, replacing older artifacts with the same contract
// name. An empty runID is replaced with a fresh one. Returns the run record written.
func (s *Store) PutRun(runID string, artifacts map[string]*types.CompiledArtifact) (*RunRecord, error) {
	if runID == "" {
		runID = uuid.NewString()
	}

	contracts := maps.Keys(artifacts)
	slices.Sort(contracts)
	record := &RunRecord{
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Contracts: contracts,
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(artifactsBucket)
		for _, name := range record.Contracts {
			data, err := json.Marshal(&StoredArtifact{RunID: runID, StoredAt: record.Timestamp, Artifact: artifacts[name]})
			if err != nil {
				return err
			}
			if err = bucket.Put([]byte(name), data); err != nil {
				return err
			}
		}

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err = tx.Bucket(runsBucket).Put([]byte(runID), data); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(lastRunKey, []byte(runID))
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not store run")
	}

	s.logger.Debug("Stored ", len(record.Contracts), " artifact(s) for run ", runID)
	return record, nil
}

// Get returns the latest stored artifact for a contract name, or ErrNotFound.
func (s *Store) Get(name string) (*StoredArtifact, error) {
	var stored StoredArtifact
	found, err := s.get(artifactsBucket, []byte(name), &stored)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "artifact '%s'", name)
	}
	return &stored, nil
}

// List returns the names of every stored contract, sorted.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(artifactsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return names, nil
}

// Run returns the record of a stored run, or ErrNotFound.
func (s *Store) Run(runID string) (*RunRecord, error) {
	var record RunRecord
	found, err := s.get(runsBucket, []byte(runID), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrNotFound, "run '%s'", runID)
	}
	return &record, nil
}

// LastRun returns the record of the most recently stored run, or ErrNotFound if the store is empty.
func (s *Store) LastRun() (*RunRecord, error) {
	var runID []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if value := tx.Bucket(metaBucket).Get(lastRunKey); value != nil {
			runID = slices.Clone(value)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if runID == nil {
		return nil, errors.Wrap(ErrNotFound, "no runs stored")
	}
	return s.Run(string(runID))
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return errors.WithStack(s.db.Close())
}

// get decodes the JSON value stored under key, reporting whether it exists.
func (s *Store) get(bucket []byte, key []byte, value any) (bool, error) {
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get(key)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, value)
	})
	if err != nil {
		return false, errors.Wrap(err, "could not read from artifact store")
	}
	return found, nil
}
