package mcp

import "github.com/mark3labs/mcp-go/mcp"

var addToolDef = mcp.NewTool("food_add",
	mcp.WithDescription("Log a food item. The entry is prepended to today's log and the log is saved. "+
		"Returns the new entry and updated totals. Invalid input returns INVALID_REQUEST naming the field."),
	mcp.WithString("name",
		mcp.Required(),
		mcp.Description("Food name, e.g. \"Oatmeal\". Leading and trailing whitespace is trimmed."),
	),
	mcp.WithNumber("calories",
		mcp.Required(),
		mcp.Description("Calories as a whole number from 1 to 100000."),
	),
)

var deleteToolDef = mcp.NewTool("food_delete",
	mcp.WithDescription("Delete a logged entry by id. Deleting an unknown id is not an error; "+
		"the result reports deleted=false. Removing the last entry clears the stored log."),
	mcp.WithDestructiveHintAnnotation(true),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry id as returned by food_add or food_list."),
	),
)

var listToolDef = mcp.NewTool("food_list",
	mcp.WithDescription("List logged entries, newest first, with relative ages and the totals of the whole log."),
	mcp.WithReadOnlyHintAnnotation(true),
	mcp.WithNumber("limit",
		mcp.Description("Max entries to return (default 50, max 500)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Entries to skip (default 0)."),
	),
)

var totalsToolDef = mcp.NewTool("food_totals",
	mcp.WithDescription("Return total calories, the daily goal, remaining and over-goal amounts, and percent of goal."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var reportToolDef = mcp.NewTool("food_report",
	mcp.WithDescription("Render today's log as a markdown report: goal summary plus a table of entries."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var exportToolDef = mcp.NewTool("food_export",
	mcp.WithDescription("Export the log to a JSONL file (header line, then one entry per line). "+
		"Defaults to ~/.winterarc/exports/<store_key>-<timestamp>.jsonl."),
	mcp.WithString("path",
		mcp.Description("Destination .jsonl path directly inside ~/.winterarc/exports or a configured allowed path."),
	),
)
