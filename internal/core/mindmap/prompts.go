package mindmap

const rootSystemPrompt = "You are an expert at organizing knowledge into structured, hierarchical mindmaps."

const rootPromptTemplate = `Create a root node for an educational mindmap about "%s".

The root node should:
- Have a clear, concise label (title) representing the main topic
- Include a comprehensive but concise content description (100-300 characters)
- Use the ID "%s" for the root node
- Have no parent_id (it is the root)

Use the create_mindmap tool to return just this single root node.`

const childSystemPrompt = "You are an expert at expanding educational topics into well-structured, comprehensive subtopics."

const childPromptTemplate = `I have a concept in a mindmap that needs to be expanded with child nodes.
The parent node details are:

ID: %s
Label: "%s"
Content: "%s"

Create up to %d child nodes that expand on this topic in a logical and educational way.
Each child node should explore a specific aspect, component, or sub-topic of the parent concept.

Use the create_child_nodes tool to structure this information. Each child node needs:
1. A unique id (use the parent id as a prefix, e.g. if the parent is "1.2", use "1.2.1", "1.2.2", ...)
2. A short, descriptive label (max 50 characters)
3. Content that explains the concept in more detail (100-300 characters)
4. The parent_id reference, which must be "%s"

Make sure the child nodes are distinct from each other, directly related to the
parent topic, and together cover the parent topic well.`
