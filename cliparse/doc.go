/*
Package cliparse handles configuration for the Gatherly server.

Values come from CLI flags first, then environment variables (a .env file
in the working directory is loaded if present), then defaults:

  - PORT (-p): server port, default 3324
  - DATABASE_TYPE (-t): sqlite or postgres, default sqlite
  - DATABASE_URL (-d): connection string; defaults to gatherly.db for sqlite,
    required for postgres
  - BLOB_PATH (--blobs): blob store directory, default data/blobs
  - BASE_URL (--base-url): public base URL used to build file links
  - JWT_SECRET (--jwt-secret): session token secret, required
  - ADMIN_EMAIL: optional; a signup with this email gets the admin role
*/
package cliparse
