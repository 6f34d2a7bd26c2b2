package driver

const (
	SaveConceptNodeQuery = `
		MERGE (n:Concept {id: $id, session_id: $session_id})
		SET n.label = $label,
			n.content = $content,
			n.updated_at = $updated_at
		RETURN n.id AS id
	`

	SaveSubtopicEdgeQuery = `
		MATCH (source:Concept {id: $source_id, session_id: $session_id})
		MATCH (target:Concept {id: $target_id, session_id: $session_id})
		MERGE (source)-[e:HAS_SUBTOPIC {id: $id}]->(target)
		SET e.session_id = $session_id
		RETURN e.id AS id
	`

	DeleteSessionGraphQuery = `
		MATCH (n:Concept {session_id: $session_id})
		DETACH DELETE n
	`
)
