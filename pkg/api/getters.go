package api

// GetUserID accessors let transport code read the addressed user from any
// progress request without knowing its concrete type.

func (x *InitializeProgressRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *GetProgressRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *UpdateStageRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *SetItemRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *DeselectStageRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *ResetProgressRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *CompleteProgressRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}
