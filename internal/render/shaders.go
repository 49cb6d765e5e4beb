package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Uniform names shared with the portal shader. The sampler names are the slot names the
// portal package resolves through Backend.ShaderSlot.
const (
	uniformRenderingEye   = "RenderingEye"
	uniformIsStereoscopic = "IsStereoscopic"
	uniformViewport       = "viewportSize"
)

const mvpVS = `#version 330
in vec3 vertexPosition;
in vec2 vertexTexCoord;
in vec3 vertexNormal;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragPosition;
out vec2 fragTexCoord;
out vec3 fragNormal;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragPosition = worldPos.xyz;
  fragTexCoord = vertexTexCoord;
  fragNormal = mat3(matModel) * vertexNormal;
  gl_Position = matProjection * matView * worldPos;
}
`

// portalFS samples the portal camera texture in screen space, so the plane looks like an
// opening rather than a picture. RenderingEye and IsStereoscopic are floats because raylib-go
// uploads every uniform from a []float32.
const portalFS = `#version 330
in vec2 fragTexCoord;
out vec4 finalColor;
uniform sampler2D _LeftEyeTex;
uniform sampler2D _CenterEyeTex;
uniform sampler2D _RightEyeTex;
uniform float RenderingEye;
uniform float IsStereoscopic;
uniform vec2 viewportSize;
void main() {
  vec2 uv = gl_FragCoord.xy / viewportSize;
  vec4 c;
  if (IsStereoscopic > 0.5) {
    c = RenderingEye < 0.5 ? texture(_LeftEyeTex, uv) : texture(_RightEyeTex, uv);
  } else {
    c = texture(_CenterEyeTex, uv);
  }
  finalColor = vec4(c.rgb, 1.0);
}
`

const litFS = `#version 330
in vec3 fragPosition;
in vec2 fragTexCoord;
in vec3 fragNormal;
uniform vec4 colDiffuse;
uniform vec3 viewPos;
uniform vec3 lightDir;
uniform vec4 ambient;
uniform vec3 lightColor;
uniform float lightIntensity;
uniform float specularPower;
uniform float specularStrength;
out vec4 finalColor;
void main() {
  vec4 tint = colDiffuse;
  vec3 N = normalize(fragNormal);
  vec3 L = normalize(lightDir);
  vec3 V = normalize(viewPos - fragPosition);
  float NdotL = max(dot(N, L), 0.0);
  vec3 diffuse = tint.rgb * NdotL * lightColor * lightIntensity;
  vec3 amb = ambient.rgb * tint.rgb;
  vec3 H = normalize(L + V);
  float spec = pow(max(dot(N, H), 0.0), specularPower) * specularStrength;
  vec3 specular = lightColor * spec * (NdotL > 0.0 ? 1.0 : 0.0);
  finalColor = vec4(amb + diffuse + specular, tint.a);
}
`

const equirectVS = `#version 330
in vec3 vertexPosition;
uniform mat4 matProjection;
uniform mat4 matView;
uniform mat4 matModel;
out vec3 fragWorldPos;
void main() {
  vec4 worldPos = matModel * vec4(vertexPosition, 1.0);
  fragWorldPos = worldPos.xyz;
  gl_Position = matProjection * matView * worldPos;
}
`

const equirectFS = `#version 330
in vec3 fragWorldPos;
out vec4 finalColor;
uniform sampler2D skybox;
uniform vec3 cameraPosition;
void main() {
  vec3 dir = normalize(fragWorldPos - cameraPosition);
  float lon = atan(dir.z, dir.x);
  float lat = asin(clamp(dir.y, -1.0, 1.0));
  finalColor = texture(skybox, vec2(lon / 6.28318530718 + 0.5, 0.5 - lat / 3.14159265359));
}
`

func loadShader(vs, fs string) (rl.Shader, bool) {
	s := rl.LoadShaderFromMemory(vs, fs)
	return s, rl.IsShaderValid(s)
}

func setFloat(s rl.Shader, loc int32, v float32) {
	if loc >= 0 {
		rl.SetShaderValue(s, loc, []float32{v}, rl.ShaderUniformFloat)
	}
}

func setVec(s rl.Shader, loc int32, v []float32, typ rl.ShaderUniformDataType) {
	if loc >= 0 {
		rl.SetShaderValueV(s, loc, v, typ, 1)
	}
}
