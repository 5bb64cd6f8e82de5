package rbac

// Default portal policy. Students act on their own attempts and
// reports only; teachers author content and see everything for their
// classes; admin bypasses all checks.
var RolePermissions = map[string][]string{
	"student": {
		"quiz:view",
		"attempt:create",
		"attempt:save",
		"attempt:submit",
		"attempt:view-own",
		"report:view-own",
		"generate:questions",
		"generate:recommendations",
		"generate:analysis",
		"user:change_password",
	},
	"teacher": {
		"quiz:create",
		"quiz:view",
		"quiz:publish",
		"question:create",
		"question:view",
		"topic:create",
		"topic:view",
		"class:create",
		"class:view",
		"attempt:view-all",
		"report:view-all",
		"generate:*",
		"users:bulk_upsert",
		"users:list",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
