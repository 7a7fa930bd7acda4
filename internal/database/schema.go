package database

// Timestamps are stored as unix milliseconds. Project codes compare
// case-sensitively; the member lookup lowers both sides explicitly.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email TEXT PRIMARY KEY,
		role TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		team_name TEXT NOT NULL DEFAULT '',
		team_size TEXT NOT NULL DEFAULT '',
		project_name TEXT NOT NULL DEFAULT '',
		project_code TEXT NOT NULL DEFAULT '',
		member_role TEXT NOT NULL DEFAULT '',
		onboarding_complete INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_project_code ON users(project_code)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)`,
	`CREATE TABLE IF NOT EXISTS projects (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		admin_email TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_admin_email ON projects(admin_email)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_code TEXT NOT NULL,
		email TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_code, email)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_project_members_email ON project_members(email)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		project_code TEXT NOT NULL,
		title TEXT NOT NULL,
		deadline TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'To-Do',
		priority TEXT NOT NULL DEFAULT 'Medium',
		assignee_name TEXT NOT NULL DEFAULT '',
		assignee_initial TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project_code ON tasks(project_code, created_at)`,
	`CREATE TABLE IF NOT EXISTS queries (
		id TEXT PRIMARY KEY,
		project_code TEXT NOT NULL,
		body TEXT NOT NULL,
		sender_email TEXT NOT NULL DEFAULT '',
		is_resolved INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_queries_project_code ON queries(project_code, created_at)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		project_code TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		user_email TEXT NOT NULL DEFAULT '',
		action_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_project_code ON activities(project_code, created_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email VARCHAR(255) NOT NULL PRIMARY KEY,
		role VARCHAR(16) NOT NULL DEFAULT '',
		position VARCHAR(255) NOT NULL DEFAULT '',
		team_name VARCHAR(255) NOT NULL DEFAULT '',
		team_size VARCHAR(64) NOT NULL DEFAULT '',
		project_name VARCHAR(255) NOT NULL DEFAULT '',
		project_code VARCHAR(255) COLLATE utf8mb4_bin NOT NULL DEFAULT '',
		member_role VARCHAR(255) NOT NULL DEFAULT '',
		onboarding_complete TINYINT(1) NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		INDEX idx_users_project_code (project_code),
		INDEX idx_users_role (role)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS projects (
		code VARCHAR(255) COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		admin_email VARCHAR(255) NOT NULL,
		created_at BIGINT NOT NULL,
		INDEX idx_projects_admin_email (admin_email)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_code VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		email VARCHAR(255) NOT NULL,
		position INT NOT NULL DEFAULT 0,
		PRIMARY KEY (project_code, email),
		INDEX idx_project_members_email (email)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id CHAR(36) NOT NULL PRIMARY KEY,
		project_code VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		title TEXT NOT NULL,
		deadline VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(64) NOT NULL DEFAULT 'To-Do',
		priority VARCHAR(32) NOT NULL DEFAULT 'Medium',
		assignee_name VARCHAR(255) NOT NULL DEFAULT '',
		assignee_initial VARCHAR(8) NOT NULL DEFAULT '',
		created_at BIGINT NOT NULL,
		INDEX idx_tasks_project_code (project_code, created_at)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS queries (
		id CHAR(36) NOT NULL PRIMARY KEY,
		project_code VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		body TEXT NOT NULL,
		sender_email VARCHAR(255) NOT NULL DEFAULT '',
		is_resolved TINYINT(1) NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		INDEX idx_queries_project_code (project_code, created_at)
	) DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS activities (
		id CHAR(36) NOT NULL PRIMARY KEY,
		project_code VARCHAR(255) COLLATE utf8mb4_bin NOT NULL,
		user_name VARCHAR(255) NOT NULL DEFAULT '',
		user_email VARCHAR(255) NOT NULL DEFAULT '',
		action_type VARCHAR(32) NOT NULL,
		description TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		INDEX idx_activities_project_code (project_code, created_at)
	) DEFAULT CHARSET=utf8mb4`,
}
