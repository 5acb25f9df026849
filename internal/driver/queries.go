package driver

const (
	// SaveConflictQuery upserts one conflict group and links it to its records.
	SaveConflictQuery = `
		MERGE (c:Conflict {id: $id})
		SET c.run_id = $run_id,
			c.title = $title,
			c.severity = $severity,
			c.detail_count = $detail_count,
			c.conflict_types = $conflict_types,
			c.created_at = $created_at
		WITH c
		UNWIND $entities AS entity
		MERGE (r:Record {id: entity.key})
		SET r.record_id = entity.id,
			r.name = entity.name,
			r.type = entity.type
		MERGE (c)-[:INVOLVES]->(r)
		RETURN count(r) AS linked
	`

	// LinkConflictingRecordsQuery chains the records of one group with
	// CONFLICTS_WITH edges.
	LinkConflictingRecordsQuery = `
		UNWIND $links AS link
		MATCH (a:Record {id: link.source})
		MATCH (b:Record {id: link.target})
		MERGE (a)-[e:CONFLICTS_WITH {conflict_id: $conflict_id}]->(b)
		SET e.run_id = $run_id,
			e.severity = $severity
		RETURN count(e) AS linked
	`

	ClearRunEdgesQuery = `
		MATCH ()-[e:CONFLICTS_WITH {run_id: $run_id}]->()
		DELETE e
	`

	ClearRunConflictsQuery = `
		MATCH (c:Conflict {run_id: $run_id})
		DETACH DELETE c
	`

	// RecordConflictsQuery lists the conflicts a record is involved in, newest first.
	RecordConflictsQuery = `
		MATCH (c:Conflict)-[:INVOLVES]->(r:Record {id: $id})
		RETURN c.id AS id,
			c.run_id AS run_id,
			c.title AS title,
			c.severity AS severity
		ORDER BY c.created_at DESC
	`
)
