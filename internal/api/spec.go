package api

import (
	"net/http"

	"github.com/scribe-works/scribe/internal/config"
	"github.com/scribe-works/scribe/pkg/openapi"
)

// SpecHandler builds the OpenAPI document for the service and returns a
// handler serving its serialized form.
func SpecHandler(cfg *config.Config) (http.HandlerFunc, error) {
	spec := buildSpec(cfg)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, err
	}

	return openapi.ServeSpec(data), nil
}

func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"Document":              documentSchema(),
		"CreateDocumentCommand": createDocumentSchema(),
		"UpdateDocumentCommand": updateDocumentSchema(),
		"DocumentPage":          pageSchema("Document"),
		"DocumentSearchRequest": searchRequestSchema(),
		"Run":                   runSchema(),
		"StartCommand":          startCommandSchema(),
		"ResumeCommand":         resumeCommandSchema(),
		"RunResponse":           runResponseSchema(),
		"Error":                 errorSchema(),
	})

	spec.Components.AddResponses(map[string]*openapi.Response{
		"BadRequest":   openapi.ResponseJSON("Invalid request", "Error"),
		"NotFound":     openapi.ResponseJSON("Resource not found", "Error"),
		"Conflict":     openapi.ResponseJSON("Conflicting state", "Error"),
		"TooLarge":     openapi.ResponseJSON("Payload exceeds size ceiling", "Error"),
		"ServerError":  openapi.ResponseJSON("Internal error", "Error"),
		"Unauthorized": openapi.ResponseJSON("Missing or invalid owner header", "Error"),
	})

	addDocumentPaths(spec)
	addWorkflowPaths(spec)

	return spec
}

func addDocumentPaths(spec *openapi.Spec) {
	spec.Paths["/documents"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List the caller's documents",
			Tags:    []string{"documents"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number", false),
				openapi.QueryParam("page_size", "integer", "Page size", false),
				openapi.QueryParam("search", "string", "Title or topic search", false),
				openapi.QueryParam("sort", "string", "Sort expression", false),
				openapi.QueryParam("status", "string", "Status filter", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document page", "DocumentPage"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a document",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyJSON("CreateDocumentCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created document", "Document"),
				400: openapi.ResponseRef("BadRequest"),
				401: openapi.ResponseRef("Unauthorized"),
			},
		},
	}

	spec.Paths["/documents/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a document",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document", "Document"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a document",
			Tags:        []string{"documents"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
			RequestBody: openapi.RequestBodyJSON("UpdateDocumentCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated document", "Document"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a document and its runs",
			Tags:       []string{"documents"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/documents/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search documents with a criteria body",
			Tags:        []string{"documents"},
			RequestBody: openapi.RequestBodyJSON("DocumentSearchRequest", false),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Document page", "DocumentPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}
}

func addWorkflowPaths(spec *openapi.Spec) {
	spec.Paths["/workflows/start"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Start a workflow run",
			Description: "Creates a run and drives the pipeline to its first suspension or terminal outcome.",
			Tags:        []string{"workflows"},
			RequestBody: openapi.RequestBodyJSON("StartCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Run outcome", "RunResponse"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
				413: openapi.ResponseRef("TooLarge"),
			},
		},
	}

	spec.Paths["/workflows/resume"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Resume a suspended run",
			Description: "Re-enters the suspended step with the caller's decision. Exactly one of two racing resumes wins.",
			Tags:        []string{"workflows"},
			RequestBody: openapi.RequestBodyJSON("ResumeCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Run outcome", "RunResponse"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
				413: openapi.ResponseRef("TooLarge"),
			},
		},
	}

	spec.Paths["/workflows/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Find a run",
			Tags:       []string{"workflows"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Run", "Run"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/workflows/document/{documentId}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "List a document's runs",
			Tags:       []string{"workflows"},
			Parameters: []*openapi.Parameter{
				openapi.PathParam("documentId", "Document ID"),
				openapi.QueryParam("status", "string", "Status filter", false),
				openapi.QueryParam("pipelineKind", "string", "Pipeline kind filter", false),
			},
			Responses: map[int]*openapi.Response{
				200: {Description: "Runs", Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{
						Type:  "array",
						Items: openapi.SchemaRef("Run"),
					}},
				}},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}
}

func documentSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "string", Format: "uuid"},
			"owner_id":   {Type: "string", Format: "uuid"},
			"title":      {Type: "string"},
			"topic":      {Type: "string"},
			"content":    {Type: "string"},
			"status":     {Type: "string", Enum: []any{"draft", "authoring", "complete"}},
			"created_at": {Type: "string", Format: "date-time"},
			"updated_at": {Type: "string", Format: "date-time"},
		},
	}
}

func createDocumentSchema() *openapi.Schema {
	return &openapi.Schema{
		Type:     "object",
		Required: []string{"title", "topic"},
		Properties: map[string]*openapi.Schema{
			"title": {Type: "string"},
			"topic": {Type: "string"},
		},
	}
}

func updateDocumentSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"title":   {Type: "string"},
			"content": {Type: "string"},
			"status":  {Type: "string", Enum: []any{"draft", "authoring", "complete"}},
		},
	}
}

func searchRequestSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"page":      {Type: "integer"},
			"page_size": {Type: "integer"},
			"search":    {Type: "string"},
			"status":    {Type: "string"},
		},
	}
}

func pageSchema(itemSchema string) *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef(itemSchema)},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	}
}

func runSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":            {Type: "string", Format: "uuid"},
			"documentId":    {Type: "string", Format: "uuid"},
			"ownerId":       {Type: "string", Format: "uuid"},
			"pipelineKind":  {Type: "string", Enum: []any{"guided", "autonomous", "coaching"}},
			"status":        {Type: "string", Enum: []any{"running", "suspended", "completed", "failed"}},
			"currentStep":   {Type: "string"},
			"stepState":     {Type: "object"},
			"resumePayload": {Type: "object"},
			"result":        {Type: "object"},
			"error":         {Type: "string"},
			"createdAt":     {Type: "string", Format: "date-time"},
			"updatedAt":     {Type: "string", Format: "date-time"},
			"expiresAt":     {Type: "string", Format: "date-time"},
		},
	}
}

func startCommandSchema() *openapi.Schema {
	return &openapi.Schema{
		Type:     "object",
		Required: []string{"documentId", "pipelineKind"},
		Properties: map[string]*openapi.Schema{
			"documentId":   {Type: "string", Format: "uuid"},
			"pipelineKind": {Type: "string", Enum: []any{"guided", "autonomous", "coaching"}},
		},
	}
}

func resumeCommandSchema() *openapi.Schema {
	return &openapi.Schema{
		Type:     "object",
		Required: []string{"runId", "stepId"},
		Properties: map[string]*openapi.Schema{
			"runId":  {Type: "string", Format: "uuid"},
			"stepId": {Type: "string"},
			"resume": {Type: "object", Description: "Approval decision and optional overrides"},
		},
	}
}

func runResponseSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"runId":        {Type: "string", Format: "uuid"},
			"documentId":   {Type: "string", Format: "uuid"},
			"pipelineKind": {Type: "string"},
			"status":       {Type: "string"},
			"currentStep":  {Type: "string"},
			"payload":      {Type: "object"},
			"result":       {Type: "object"},
			"error":        {Type: "string"},
			"expiresAt":    {Type: "string", Format: "date-time"},
		},
	}
}

func errorSchema() *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"error": {Type: "string"},
		},
	}
}
