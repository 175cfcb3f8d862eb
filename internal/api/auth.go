package api

import "context"

// LoginRequest is the credentials exchange payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token plus the identity of the caller.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	UserName    string `json:"user_name"`
	UserType    string `json:"user_type"`
	UserCPF     string `json:"user_cpf"`
}

// Login exchanges credentials for a bearer token. A 401 here is a bad
// credential, not an expired session, so the unauthorized policy stays quiet.
func (c *Client) Login(ctx context.Context, email, senha string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, loginPath, LoginRequest{Email: email, Password: senha}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
