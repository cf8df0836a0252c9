package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search the indexed documents. Returns matching files with their category and a snippet around the match."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Search term or natural language query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default: all matches)"),
	),
	mcp.WithString("category",
		mcp.Description("Only return documents in this category"),
		mcp.Enum("Marketing", "Product", "Internal", "General"),
	),
)

// uploadDocumentTool defines the upload_document MCP tool.
var uploadDocumentTool = mcp.NewTool("upload_document",
	mcp.WithDescription("Add a text or markdown document to the index. The document is categorized automatically."),
	mcp.WithString("filename",
		mcp.Required(),
		mcp.Description("Display name of the document, e.g. q3-report.md"),
	),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Full document text"),
	),
)

// listDocumentsTool defines the list_documents MCP tool.
var listDocumentsTool = mcp.NewTool("list_documents",
	mcp.WithDescription("List every indexed document with its ID, category and size."),
)

// getDocumentTool defines the get_document MCP tool.
var getDocumentTool = mcp.NewTool("get_document",
	mcp.WithDescription("Get the full content of an indexed document."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Document ID as returned by search_documents or list_documents"),
	),
)
