package mysql

const createItinerariesSQL = `
CREATE TABLE IF NOT EXISTS itineraries (
  id            VARCHAR(36)  NOT NULL PRIMARY KEY,
  location_name VARCHAR(512) NOT NULL,
  days          INT          NOT NULL,
  preferences   JSON         NULL,
  schedule      JSON         NOT NULL,
  summary       TEXT         NULL,
  planner       VARCHAR(32)  NOT NULL,
  total_sites   INT          NOT NULL,
  created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)
`

const upsertItinerarySQL = `
INSERT INTO itineraries
  (id, location_name, days, preferences, schedule, summary, planner, total_sites)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  location_name = VALUES(location_name),
  days          = VALUES(days),
  preferences   = VALUES(preferences),
  schedule      = VALUES(schedule),
  summary       = VALUES(summary),
  planner       = VALUES(planner),
  total_sites   = VALUES(total_sites),
  updated_at    = CURRENT_TIMESTAMP
`

const getItinerarySQL = `
SELECT id, location_name, days, preferences, schedule, summary, planner, total_sites
FROM itineraries
WHERE id = ?
`
