package overlay

const vertexShader = `#version 410 core

layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec2 aTexCoord;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
    vNormal = aNormal;
    vTexCoord = aTexCoord;
    gl_Position = uViewProj * vec4(aPosition, 1.0);
}
`

const fragmentShader = `#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;

uniform vec4 uColor;
uniform float uPulse;

out vec4 FragColor;

void main() {
    // Brighter rim along the face border
    vec2 edge = min(vTexCoord, 1.0 - vTexCoord);
    float rim = 1.0 - smoothstep(0.0, 0.03, min(edge.x, edge.y));
    float alpha = uColor.a * (0.6 + 0.4 * uPulse) + rim * 0.4;
    FragColor = vec4(uColor.rgb + rim * 0.3, clamp(alpha, 0.0, 1.0));
}
`
