package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
	"github.com/hydrometrics/adcp-survey/internal/session"
)

// Store provides an interface for managing sensor archive storage operations.
// It handles deployments, transect metadata and per-channel sensor readings.
// All operations that write to the database should be considered atomic.
type Store interface {
	// CreateDeployment initializes a new archived deployment and returns its
	// unique identifier.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - stationName: Gauging station name (e.g., "Clearwater River at Miles Crossing")
	//   - stationID: Agency station identifier (e.g., "07153000")
	//   - site: Optional site description. Can be string, []byte, or JSON-serializable object
	//
	// Returns:
	//   - deploymentID: Unique identifier for the created deployment
	//   - error: If deployment creation fails or context is cancelled
	CreateDeployment(ctx context.Context, stationName, stationID string, site any) (deploymentID int64, err error)

	// Deployment retrieves a specific archived deployment by its ID.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - id: Unique deployment identifier
	//
	// Returns:
	//   - deployment: Pointer to deployment data, nil if not found
	//   - error: If retrieval fails or context is cancelled
	Deployment(ctx context.Context, id int64) (deployment *DeploymentInfo, err error)

	// Deployments returns all archived deployments stored in the database.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//
	// Returns:
	//   - deployments: Slice of pointers to deployment data
	//   - error: If retrieval fails or context is cancelled
	Deployments(ctx context.Context) (deployments []*DeploymentInfo, err error)

	// StoreTransect saves transect acquisition metadata for a deployment.
	// Channel readings are linked to the transect for later retrieval.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - deploymentID: ID of the deployment this transect belongs to
	//   - seq: Position of the transect within the deployment
	//   - t: Transect metadata decoded from a deployment document
	//
	// Returns:
	//   - transectID: Unique identifier for the stored transect
	//   - error: If storage fails or context is cancelled
	StoreTransect(ctx context.Context, deploymentID int64, seq int, t *session.Transect) (transectID int64, err error)

	// StoreChannel saves one sensor channel for a transect. The channel row
	// and all of its readings are stored in a single atomic transaction.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - transectID: ID of the transect this channel belongs to
	//   - kind: Measured quantity the channel carries
	//   - origin: Where the readings came from
	//   - ch: Channel holding working values, as-loaded values and provenance
	//   - selected: Whether this origin was selected for processing
	//
	// Returns:
	//   - channelID: Unique identifier for the stored channel
	//   - error: If storage fails or context is cancelled
	StoreChannel(ctx context.Context, transectID int64, kind sensor.Kind, origin sensor.Origin, ch *sensor.Channel, selected bool) (channelID int64, err error)

	// Close releases all database connections and resources.
	// After Close is called, the store instance cannot be reused.
	// It is safe to call Close multiple times.
	//
	// Returns:
	//   - error: If closing fails or some resources cannot be released
	Close() error
}
