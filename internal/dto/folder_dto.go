package dto

type CreateFolderRequest struct {
	FolderName string `json:"folderName"`
	Path       string `json:"path"`
}

type CreateFolderResponse struct {
	FolderName string `json:"folderName"`
}

type RenameRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
	Path    string `json:"path"`
}

type DeleteRequest struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type UploadResponse struct {
	FileName    string `json:"fileName"`
	CurrentPath string `json:"currentPath"`
}
